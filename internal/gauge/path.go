package gauge

import (
	"image"
	"math"
)

// TrigMaxAngle is one full turn in trig units.
const TrigMaxAngle = 0x10000

// WedgeTemplate is one ring segment pointing straight up from the center.
var WedgeTemplate = []image.Point{{0, 0}, {3, -15}, {1, -16}, {-1, -16}, {-4, -15}}

// WedgePath is a polygon that can be rotated about and moved to an anchor.
type WedgePath struct {
	template []image.Point
	offset   image.Point
	rotation int32
	points   []image.Point
}

func NewWedgePath(template []image.Point) *WedgePath {
	p := &WedgePath{
		template: append([]image.Point(nil), template...),
		points:   make([]image.Point, len(template)),
	}
	p.apply()
	return p
}

// MoveTo sets the anchor that template (0,0) maps to.
func (p *WedgePath) MoveTo(offset image.Point) {
	p.offset = offset
	p.apply()
}

// RotateTo sets the absolute rotation in trig units, clockwise on screen.
func (p *WedgePath) RotateTo(angle int32) {
	p.rotation = angle
	p.apply()
}

func (p *WedgePath) Rotation() int32 { return p.rotation }

// Points returns the rotated and translated outline. The slice is reused by
// the next RotateTo or MoveTo.
func (p *WedgePath) Points() []image.Point { return p.points }

func (p *WedgePath) apply() {
	rad := float64(p.rotation) * 2 * math.Pi / TrigMaxAngle
	sin, cos := math.Sincos(rad)
	for i, pt := range p.template {
		x := float64(pt.X)*cos - float64(pt.Y)*sin
		y := float64(pt.X)*sin + float64(pt.Y)*cos
		p.points[i] = image.Point{
			X: int(math.Round(x)) + p.offset.X,
			Y: int(math.Round(y)) + p.offset.Y,
		}
	}
}
