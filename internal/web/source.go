package web

import (
	"context"
	"errors"
	"image"
	"image/draw"

	"github.com/rook-computer/circuit/internal/face"
	"github.com/rook-computer/circuit/internal/host"
)

var ErrNoFrame = errors.New("no frame painted yet")

// Source reads the face from an HTTP goroutine.
type Source interface {
	State(ctx context.Context) (face.DisplayState, error)
	Frame(ctx context.Context) (*image.RGBA, error)
}

// LoopSource reads the face on its event loop, so a request never observes
// a half-applied event.
type LoopSource struct {
	Loop *host.Loop
	Face *face.Watchface
}

func (s LoopSource) State(ctx context.Context) (face.DisplayState, error) {
	var state face.DisplayState
	err := s.Loop.Call(ctx, func() { state = s.Face.Snapshot() })
	return state, err
}

// Frame returns a copy of the canvas as of the last paint pass.
func (s LoopSource) Frame(ctx context.Context) (*image.RGBA, error) {
	var frame *image.RGBA
	err := s.Loop.Call(ctx, func() {
		canvas := s.Face.Canvas()
		if canvas == nil {
			return
		}
		frame = image.NewRGBA(canvas.Bounds())
		draw.Draw(frame, frame.Bounds(), canvas, canvas.Bounds().Min, draw.Src)
	})
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, ErrNoFrame
	}
	return frame, nil
}
