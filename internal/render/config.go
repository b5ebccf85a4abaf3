package render

import "image/color"

// Default palette and screen geometry. The face draws in two colors; the
// config layer may swap them for a theme.
var (
	Black = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Clear = color.RGBA{}

	// Logical canvas size; scaled to the output device.
	ScreenWidth  = 144
	ScreenHeight = 168
)
