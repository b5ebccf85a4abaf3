package render

import (
	"context"
	"image"
)

// Output receives every painted frame.
type Output interface {
	Start(ctx context.Context) error
	Stop() error
	Flush(frame *image.RGBA) error
}

type NoopOutput struct{}

func (NoopOutput) Start(ctx context.Context) error { return nil }
func (NoopOutput) Stop() error                     { return nil }
func (NoopOutput) Flush(frame *image.RGBA) error   { return nil }

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

func (a TextAlign) String() string {
	switch a {
	case TextAlignCenter:
		return "center"
	case TextAlignRight:
		return "right"
	default:
		return "left"
	}
}
