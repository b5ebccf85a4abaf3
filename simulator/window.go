package main

import (
	"context"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// frameBuffer is the simulator's render.Output: it keeps the last flushed
// frame for the window to show.
type frameBuffer struct {
	mu    sync.Mutex
	frame *image.RGBA
	seq   uint64
}

func (b *frameBuffer) Start(ctx context.Context) error { return nil }
func (b *frameBuffer) Stop() error                     { return nil }

func (b *frameBuffer) Flush(frame *image.RGBA) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame == nil || b.frame.Bounds() != frame.Bounds() {
		b.frame = image.NewRGBA(frame.Bounds())
	}
	copy(b.frame.Pix, frame.Pix)
	b.seq++
	return nil
}

// copyInto copies the frame into dst when it changed since seen.
func (b *frameBuffer) copyInto(dst []byte, seen uint64) (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame == nil || b.seq == seen || len(dst) != len(b.frame.Pix) {
		return seen, false
	}
	copy(dst, b.frame.Pix)
	return b.seq, true
}

// runWindow shows frames until the window closes or ctx is done. It must
// run on the main goroutine.
func runWindow(ctx context.Context, frames *frameBuffer, control *SimControl, width, height, scale int) error {
	if scale < 1 {
		scale = 1
	}
	g := &simGame{ctx: ctx, frames: frames, control: control, width: width, height: height}
	ebiten.SetWindowTitle("circuit simulator")
	ebiten.SetWindowSize(width*scale, height*scale)
	ebiten.SetTPS(30)
	return ebiten.RunGame(g)
}

type simGame struct {
	ctx     context.Context
	frames  *frameBuffer
	control *SimControl

	width, height int
	pix           []byte
	img           *ebiten.Image
	seen          uint64
}

// Update maps keys onto the simulated services:
// B toggles Bluetooth, C toggles charging, Up/Down change the charge by 10
// and T forces a tick.
func (g *simGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.control.ToggleBluetooth()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.control.ToggleCharging()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.control.AdjustCharge(10)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.control.AdjustCharge(-10)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.control.Tick()
	}
	return nil
}

func (g *simGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.width, g.height)
		g.pix = make([]byte, 4*g.width*g.height)
	}
	if seq, ok := g.frames.copyInto(g.pix, g.seen); ok {
		g.seen = seq
		g.img.WritePixels(g.pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *simGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
