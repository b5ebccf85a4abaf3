package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
)

// UpdateProc draws a layer. It runs only inside a paint pass.
type UpdateProc func(layer *Layer, ctx *Context)

// Layer is a rectangular drawable region. Frames are relative to the parent.
type Layer struct {
	frame     image.Rectangle
	update    UpdateProc
	parent    *Layer
	children  []*Layer
	window    *Window
	destroyed bool
}

func NewLayer(frame image.Rectangle) *Layer {
	return &Layer{frame: frame}
}

func (l *Layer) SetUpdateProc(fn UpdateProc) { l.update = fn }

func (l *Layer) Frame() image.Rectangle { return l.frame }

// Bounds is the frame in the layer's own coordinates.
func (l *Layer) Bounds() image.Rectangle {
	return image.Rectangle{Max: l.frame.Size()}
}

func (l *Layer) Destroyed() bool { return l.destroyed }

func (l *Layer) AddChild(child *Layer) {
	if child == nil || child.destroyed || l.destroyed {
		return
	}
	child.RemoveFromParent()
	child.parent = l
	l.children = append(l.children, child)
	child.MarkDirty()
}

func (l *Layer) RemoveFromParent() {
	if l.parent == nil {
		return
	}
	siblings := l.parent.children
	for i, sibling := range siblings {
		if sibling == l {
			l.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	l.MarkDirty()
	l.parent = nil
}

// MarkDirty queues the layer for the next paint pass. It is a no-op for a
// layer that is not attached to a window.
func (l *Layer) MarkDirty() {
	if l.destroyed {
		return
	}
	if w := l.rootWindow(); w != nil {
		w.markDirty(l)
	}
}

// Destroy detaches the layer and its children. A destroyed layer is never
// drawn again.
func (l *Layer) Destroy() {
	if l.destroyed {
		return
	}
	l.RemoveFromParent()
	for _, child := range l.children {
		child.parent = nil
	}
	l.children = nil
	l.update = nil
	l.destroyed = true
}

func (l *Layer) rootWindow() *Window {
	node := l
	for node.parent != nil {
		node = node.parent
	}
	return node.window
}

func (l *Layer) absFrame() image.Rectangle {
	frame := l.frame
	for p := l.parent; p != nil; p = p.parent {
		frame = frame.Add(p.frame.Min)
	}
	return frame
}

// TextLayer draws one run of text in its bounds.
type TextLayer struct {
	*Layer

	text       string
	face       font.Face
	align      TextAlign
	color      color.Color
	background color.Color
}

func NewTextLayer(frame image.Rectangle) *TextLayer {
	t := &TextLayer{Layer: NewLayer(frame), color: Black, background: White}
	t.SetUpdateProc(t.draw)
	return t
}

// SetText replaces the text and marks the layer dirty.
func (t *TextLayer) SetText(text string) {
	t.text = text
	t.MarkDirty()
}

func (t *TextLayer) Text() string { return t.text }

func (t *TextLayer) SetFont(face font.Face) {
	t.face = face
	t.MarkDirty()
}

func (t *TextLayer) SetTextAlignment(align TextAlign) {
	t.align = align
	t.MarkDirty()
}

func (t *TextLayer) SetTextColor(col color.Color) {
	t.color = col
	t.MarkDirty()
}

func (t *TextLayer) SetBackgroundColor(col color.Color) {
	t.background = col
	t.MarkDirty()
}

func (t *TextLayer) draw(layer *Layer, ctx *Context) {
	if _, _, _, a := t.background.RGBA(); a != 0 {
		ctx.SetFillColor(t.background)
		ctx.FillRect(layer.Bounds())
	}
	ctx.DrawText(t.text, t.face, layer.Bounds(), t.align, t.color)
}
