package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/rook-computer/circuit/internal/render/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Context is handed to a layer's update proc. All coordinates are local to
// the layer; the context offsets them by the layer's absolute origin.
type Context struct {
	dst    *image.RGBA
	origin image.Point
	gc     *draw2dimg.GraphicContext

	fill   color.Color
	stroke color.Color
}

func newContext(dst *image.RGBA, origin image.Point) *Context {
	return &Context{dst: dst, origin: origin, fill: Black, stroke: Black}
}

// NewContext returns a context drawing straight into dst with the given
// absolute origin. Paint passes build their own; this is for off-window use.
func NewContext(dst *image.RGBA, origin image.Point) *Context {
	return newContext(dst, origin)
}

func (c *Context) SetFillColor(col color.Color)   { c.fill = col }
func (c *Context) SetStrokeColor(col color.Color) { c.stroke = col }

func (c *Context) graphics() *draw2dimg.GraphicContext {
	if c.gc == nil {
		c.gc = draw2dimg.NewGraphicContext(c.dst)
	}
	return c.gc
}

// pixel centers sit on half coordinates for the rasterizer.
func (c *Context) abs(p image.Point) (float64, float64) {
	return float64(c.origin.X+p.X) + 0.5, float64(c.origin.Y+p.Y) + 0.5
}

func (c *Context) FillCircle(center image.Point, radius int) {
	if radius <= 0 {
		return
	}
	gc := c.graphics()
	x, y := c.abs(center)
	gc.BeginPath()
	draw2dkit.Circle(gc, x, y, float64(radius))
	gc.SetFillColor(c.fill)
	gc.Fill()
}

func (c *Context) DrawCircle(center image.Point, radius int) {
	if radius <= 0 {
		return
	}
	gc := c.graphics()
	x, y := c.abs(center)
	gc.BeginPath()
	draw2dkit.Circle(gc, x, y, float64(radius))
	gc.SetStrokeColor(c.stroke)
	gc.SetLineWidth(1)
	gc.Stroke()
}

// FillPolygon fills the closed outline through points.
func (c *Context) FillPolygon(points []image.Point) {
	if len(points) < 3 {
		return
	}
	gc := c.graphics()
	gc.BeginPath()
	x, y := c.abs(points[0])
	gc.MoveTo(x, y)
	for _, p := range points[1:] {
		x, y = c.abs(p)
		gc.LineTo(x, y)
	}
	gc.Close()
	gc.SetFillColor(c.fill)
	gc.Fill()
}

func (c *Context) FillRect(rect image.Rectangle) {
	rect = layout.Normalize(rect).Add(c.origin)
	draw.Draw(c.dst, rect, &image.Uniform{C: c.fill}, image.Point{}, draw.Over)
}

// DrawBitmapInRect composites img at rect.Min, clipped to rect. No scaling.
func (c *Context) DrawBitmapInRect(img image.Image, rect image.Rectangle) {
	if img == nil {
		return
	}
	rect = layout.Normalize(rect).Add(c.origin)
	draw.Draw(c.dst, rect, img, img.Bounds().Min, draw.Over)
}

// DrawText draws text top-aligned inside rect with the given horizontal
// alignment. Text is not wrapped; the compositor clips what overflows.
func (c *Context) DrawText(text string, face font.Face, rect image.Rectangle, align TextAlign, col color.Color) {
	if text == "" || face == nil {
		return
	}
	rect = layout.Normalize(rect).Add(c.origin)
	drawer := &font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := drawer.MeasureString(text).Ceil()
	var x int
	switch align {
	case TextAlignCenter:
		x = layout.CenterX(rect, width)
	case TextAlignRight:
		x = layout.EndX(rect, width)
	default:
		x = layout.StartX(rect, width)
	}
	baseline := rect.Min.Y + face.Metrics().Ascent.Ceil()
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}
