package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/rook-computer/circuit/internal/render/layout"
)

// Window owns the layer tree and the canvas it is composited onto.
type Window struct {
	root       *Layer
	canvas     *image.RGBA
	scratch    *image.RGBA
	background color.Color
	dirty      []*Layer
	destroyed  bool
}

func NewWindow(width, height int, background color.Color) *Window {
	bounds := image.Rect(0, 0, width, height)
	w := &Window{
		canvas:     image.NewRGBA(bounds),
		scratch:    image.NewRGBA(bounds),
		background: background,
	}
	w.root = NewLayer(bounds)
	w.root.window = w
	w.root.SetUpdateProc(func(layer *Layer, ctx *Context) {
		ctx.SetFillColor(w.background)
		ctx.FillRect(layer.Bounds())
	})
	w.root.MarkDirty()
	return w
}

func (w *Window) RootLayer() *Layer { return w.root }

// Canvas is the composited frame. It only changes during Paint.
func (w *Window) Canvas() *image.RGBA { return w.canvas }

func (w *Window) Bounds() image.Rectangle { return w.canvas.Bounds() }

// DirtyLayers lists the layers queued for the next paint pass, in the order
// they were marked.
func (w *Window) DirtyLayers() []*Layer {
	out := make([]*Layer, len(w.dirty))
	copy(out, w.dirty)
	return out
}

func (w *Window) markDirty(l *Layer) {
	if w.destroyed {
		return
	}
	for _, queued := range w.dirty {
		if queued == l {
			return
		}
	}
	w.dirty = append(w.dirty, l)
}

// Paint redraws every live layer that intersects the union of the queued
// regions, clipped to that union, and clears the queue. It reports whether
// anything was drawn.
func (w *Window) Paint() bool {
	if w.destroyed || len(w.dirty) == 0 {
		return false
	}
	rects := make([]image.Rectangle, 0, len(w.dirty))
	for _, l := range w.dirty {
		rects = append(rects, l.absFrame())
	}
	w.dirty = w.dirty[:0]

	region := layout.Clip(layout.Union(rects...), w.canvas.Bounds())
	if region.Empty() {
		return false
	}
	w.paintLayer(w.root, region)
	return true
}

func (w *Window) paintLayer(l *Layer, region image.Rectangle) {
	frame := l.absFrame()
	clip := layout.Clip(frame, region)
	if !clip.Empty() && l.update != nil {
		draw.Draw(w.scratch, clip, image.Transparent, image.Point{}, draw.Src)
		l.update(l, newContext(w.scratch, frame.Min))
		draw.Draw(w.canvas, clip, w.scratch, clip.Min, draw.Over)
	}
	// Children can overflow a parent frame, so they are visited regardless.
	for _, child := range l.children {
		w.paintLayer(child, region)
	}
}

// Destroy releases the layer tree. The canvas keeps its last frame.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.root.Destroy()
	w.dirty = nil
	w.destroyed = true
}

func (w *Window) Destroyed() bool { return w.destroyed }
