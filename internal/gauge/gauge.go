// Package gauge draws the battery ring: a disk swept by rotated wedges, a
// framing disk and outline, and a charging or power glyph in the middle.
package gauge

import (
	"image"
	"image/color"

	"github.com/rook-computer/circuit/internal/render"
)

// Geometry, in the coordinates of the full-screen battery layer.
var (
	Center   = image.Pt(30, 54)
	IconRect = image.Rect(24, 48, 37, 61)
)

const (
	OuterRadius   = 16
	InnerRadius   = 9
	OutlineRadius = 15
)

// ChargeState is one battery snapshot from the host.
type ChargeState struct {
	Percent    int  `json:"percent"`
	IsCharging bool `json:"charging"`
}

// Icons are the two glyphs drawn in the gauge center.
type Icons struct {
	Power    image.Image
	Charging image.Image
}

// Icon returns the glyph for state: the charging icon while charging, the
// power icon otherwise.
func (i Icons) Icon(state ChargeState) image.Image {
	if state.IsCharging {
		return i.Charging
	}
	return i.Power
}

// Renderer draws the gauge. Its wedge path is rotated in place on every call.
type Renderer struct {
	Foreground color.Color
	Background color.Color
	Mode       FillMode

	path *WedgePath
}

func NewRenderer(foreground, background color.Color, mode FillMode) *Renderer {
	path := NewWedgePath(WedgeTemplate)
	path.MoveTo(Center)
	return &Renderer{Foreground: foreground, Background: background, Mode: mode, path: path}
}

// Path exposes the wedge path, mainly for inspection.
func (r *Renderer) Path() *WedgePath { return r.path }

// Render draws the gauge for state and returns the number of wedges filled.
func (r *Renderer) Render(ctx *render.Context, state ChargeState, icons Icons) int {
	ctx.SetFillColor(r.Background)
	ctx.FillCircle(Center, OuterRadius)

	ctx.SetFillColor(r.Foreground)
	angles := SweepAngles(state.Percent, r.Mode)
	for _, angle := range angles {
		r.path.RotateTo(TrigAngle(angle))
		ctx.FillPolygon(r.path.Points())
	}

	ctx.SetFillColor(r.Foreground)
	ctx.FillCircle(Center, InnerRadius)

	ctx.SetStrokeColor(r.Foreground)
	ctx.DrawCircle(Center, OutlineRadius)

	ctx.DrawBitmapInRect(icons.Icon(state), IconRect)
	return len(angles)
}
