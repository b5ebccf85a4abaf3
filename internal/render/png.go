package render

import (
	"bytes"
	"image"
	"image/png"
	"io"
)

// EncodePNG writes frame as PNG. Best speed is enough for a 144x168 frame.
func EncodePNG(w io.Writer, frame image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, frame)
}

// SnapshotPNG encodes frame into a fresh byte slice.
func SnapshotPNG(frame *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, frame); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
