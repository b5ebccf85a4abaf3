package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func fillProc(col color.Color, rect image.Rectangle) UpdateProc {
	return func(layer *Layer, ctx *Context) {
		ctx.SetFillColor(col)
		ctx.FillRect(rect)
	}
}

func TestWindow_InitialPaint(t *testing.T) {
	w := NewWindow(ScreenWidth, ScreenHeight, Black)
	if !w.Paint() {
		t.Fatal("expected first paint to draw the root layer")
	}
	if w.Paint() {
		t.Error("second paint with nothing dirty should be a no-op")
	}
	if got := w.Canvas().RGBAAt(10, 10); got != Black {
		t.Errorf("background pixel = %v, want black", got)
	}
}

func TestWindow_MarkDirtyOnlyQueuesLayer(t *testing.T) {
	w := NewWindow(ScreenWidth, ScreenHeight, Black)
	indicator := NewLayer(image.Rect(55, 22, 65, 36))
	indicator.SetUpdateProc(fillProc(White, image.Rect(0, 0, 10, 14)))
	w.RootLayer().AddChild(indicator)
	w.Paint()

	indicator.MarkDirty()
	indicator.MarkDirty()

	dirty := w.DirtyLayers()
	if len(dirty) != 1 || dirty[0] != indicator {
		t.Fatalf("dirty = %v, want only the indicator", dirty)
	}
	w.Paint()
	if n := len(w.DirtyLayers()); n != 0 {
		t.Errorf("dirty after paint = %d, want 0", n)
	}
}

func TestWindow_LocalCoordinatesAndClip(t *testing.T) {
	w := NewWindow(ScreenWidth, ScreenHeight, Black)
	indicator := NewLayer(image.Rect(55, 22, 65, 36))
	// Draws far beyond its own frame; the compositor must clip it.
	indicator.SetUpdateProc(fillProc(White, image.Rect(-20, -20, 40, 40)))
	w.RootLayer().AddChild(indicator)
	w.Paint()

	canvas := w.Canvas()
	if got := canvas.RGBAAt(55, 22); got != White {
		t.Errorf("pixel (55,22) = %v, want white", got)
	}
	if got := canvas.RGBAAt(64, 35); got != White {
		t.Errorf("pixel (64,35) = %v, want white", got)
	}
	for _, p := range []image.Point{{54, 22}, {55, 21}, {65, 35}, {64, 36}} {
		if got := canvas.RGBAAt(p.X, p.Y); got != Black {
			t.Errorf("pixel %v = %v, want black (clipped)", p, got)
		}
	}
}

func TestWindow_RepaintUsesDirtyRegionOnly(t *testing.T) {
	w := NewWindow(40, 40, Black)
	left := NewLayer(image.Rect(0, 0, 10, 10))
	right := NewLayer(image.Rect(20, 20, 30, 30))
	leftColor := color.RGBA{R: 0xFF, A: 0xFF}
	left.SetUpdateProc(func(l *Layer, ctx *Context) {
		ctx.SetFillColor(leftColor)
		ctx.FillRect(l.Bounds())
	})
	right.SetUpdateProc(fillProc(White, image.Rect(0, 0, 10, 10)))
	w.RootLayer().AddChild(left)
	w.RootLayer().AddChild(right)
	w.Paint()

	leftColor = color.RGBA{G: 0xFF, A: 0xFF}
	right.MarkDirty()
	w.Paint()

	if got := w.Canvas().RGBAAt(5, 5); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Errorf("left layer repainted outside the dirty region: %v", got)
	}
}

func TestLayer_DestroyStopsDrawing(t *testing.T) {
	w := NewWindow(20, 20, Black)
	l := NewLayer(image.Rect(0, 0, 20, 20))
	l.SetUpdateProc(fillProc(White, image.Rect(0, 0, 20, 20)))
	w.RootLayer().AddChild(l)
	w.Paint()

	l.Destroy()
	if !l.Destroyed() {
		t.Fatal("layer not marked destroyed")
	}
	w.Paint()
	if got := w.Canvas().RGBAAt(3, 3); got != Black {
		t.Errorf("destroyed layer still visible: %v", got)
	}
	l.MarkDirty()
	if n := len(w.DirtyLayers()); n != 0 {
		t.Errorf("destroyed layer queued itself: %d", n)
	}
}

func TestTextLayer_SetTextMarksDirty(t *testing.T) {
	w := NewWindow(ScreenWidth, ScreenHeight, Black)
	text := NewTextLayer(image.Rect(0, 8, 135, 36))
	text.SetBackgroundColor(Clear)
	text.SetTextColor(White)
	text.SetFont(basicfont.Face7x13)
	text.SetTextAlignment(TextAlignRight)
	w.RootLayer().AddChild(text.Layer)
	w.Paint()

	text.SetText("WED")
	dirty := w.DirtyLayers()
	if len(dirty) != 1 || dirty[0] != text.Layer {
		t.Fatalf("dirty = %v, want the text layer", dirty)
	}
	w.Paint()

	lit := 0
	canvas := w.Canvas()
	for y := 8; y < 36; y++ {
		for x := 100; x < 135; x++ {
			if canvas.RGBAAt(x, y).R > 0x80 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("right-aligned text left no pixels near the right edge")
	}
}

func TestContext_CircleAndPolygon(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	ctx := NewContext(img, image.Pt(0, 0))
	ctx.SetFillColor(White)
	ctx.FillCircle(image.Pt(30, 30), 10)
	if got := img.RGBAAt(30, 30); got != White {
		t.Errorf("circle center = %v, want white", got)
	}
	if got := img.RGBAAt(30, 45); got.A != 0 {
		t.Errorf("outside circle = %v, want transparent", got)
	}

	ctx.SetFillColor(Black)
	ctx.FillPolygon([]image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	if got := img.RGBAAt(5, 5); got != Black {
		t.Errorf("polygon interior = %v, want black", got)
	}
}

func TestEncodePNG(t *testing.T) {
	w := NewWindow(ScreenWidth, ScreenHeight, Black)
	w.Paint()
	data, err := SnapshotPNG(w.Canvas())
	if err != nil {
		t.Fatalf("SnapshotPNG err=%v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if img.Bounds().Dx() != ScreenWidth || img.Bounds().Dy() != ScreenHeight {
		t.Errorf("decoded size %v", img.Bounds())
	}
}
