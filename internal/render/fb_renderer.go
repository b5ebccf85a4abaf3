package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/circuit/internal/render/layout"
	xdraw "golang.org/x/image/draw"
)

const DefaultFramebufferDevice = "/dev/fb0"

// FBRenderer scales each painted frame onto the Linux framebuffer.
type FBRenderer struct {
	Device string

	fbDev   *fb.Device
	running atomic.Bool
	frames  atomic.Uint64
	source  image.Point
	target  image.Rectangle
	Logger  interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

func NewFBRenderer(device string) *FBRenderer {
	if device == "" {
		device = DefaultFramebufferDevice
	}
	return &FBRenderer{Device: device}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	dev, err := fb.Open(r.Device)
	if err != nil {
		return err
	}
	r.fbDev = dev
	bounds := dev.Bounds()
	r.source = image.Pt(ScreenWidth, ScreenHeight)
	r.target = layout.FitScaled(r.source, bounds)
	if r.Logger != nil {
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d, face rect=%v", r.Device, bounds.Dx(), bounds.Dy(), r.target)
	}

	// Clear the letterbox once; frames only touch the target rect afterwards.
	draw.Draw(dev, bounds, &image.Uniform{C: Black}, image.Point{}, draw.Src)
	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev == nil {
		return nil
	}
	r.fbDev.Close()
	r.fbDev = nil
	return nil
}

func (r *FBRenderer) Flush(frame *image.RGBA) error {
	if !r.running.Load() || r.fbDev == nil {
		return errors.New("framebuffer not started")
	}
	if frame == nil {
		return nil
	}
	if size := frame.Bounds().Size(); size != r.source {
		r.source = size
		r.target = layout.FitScaled(size, r.fbDev.Bounds())
	}
	blitToFB(r.fbDev, r.target, frame)
	if n := r.frames.Add(1); r.Logger != nil && n%60 == 1 {
		r.Logger.Infof("fb", "frame %d flushed", n)
	}
	return nil
}

// Helper: nearest-neighbour scale of the canvas into the target rect.
func blitToFB(dev draw.Image, target image.Rectangle, canvas *image.RGBA) {
	if target.Empty() {
		return
	}
	if target.Size() == canvas.Bounds().Size() {
		draw.Draw(dev, target, opaque{canvas}, canvas.Bounds().Min, draw.Src)
		return
	}
	xdraw.NearestNeighbor.Scale(dev, target, opaque{canvas}, canvas.Bounds(), xdraw.Src, nil)
}

// opaque forces alpha to 0xFF; some framebuffers treat alpha as padding.
type opaque struct{ *image.RGBA }

func (o opaque) At(x, y int) color.Color {
	pixel := o.RGBAAt(x, y)
	pixel.A = 0xFF
	return pixel
}
