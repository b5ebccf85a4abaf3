// Package assets holds the face's embedded bitmaps and fonts and turns them
// into drawable resources.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

//go:embed background.svg power.svg charging.svg
var imagesFS embed.FS

// ResourceID names a build-time resource.
type ResourceID int

const (
	ImageBackground ResourceID = iota
	ImagePower
	ImageCharging
	FontTime
	FontLabel
	FontSmall
)

var imageSpecs = map[ResourceID]struct {
	file string
	size image.Point
}{
	ImageBackground: {"background.svg", image.Pt(144, 168)},
	ImagePower:      {"power.svg", image.Pt(13, 13)},
	ImageCharging:   {"charging.svg", image.Pt(13, 13)},
}

func (id ResourceID) String() string {
	switch id {
	case ImageBackground:
		return "IMAGE_BACKGROUND"
	case ImagePower:
		return "IMAGE_POWER"
	case ImageCharging:
		return "IMAGE_CHARGING"
	case FontTime:
		return "FONT_42"
	case FontLabel:
		return "FONT_28"
	case FontSmall:
		return "FONT_12"
	default:
		return fmt.Sprintf("resource(%d)", int(id))
	}
}

// Bitmap is a loaded image resource. It is released with Destroy.
type Bitmap struct {
	ID  ResourceID
	img *image.RGBA
}

// Image returns the pixels, or nil once the bitmap is destroyed.
func (b *Bitmap) Image() image.Image {
	if b == nil || b.img == nil {
		return nil
	}
	return b.img
}

func (b *Bitmap) Bounds() image.Rectangle {
	if b == nil || b.img == nil {
		return image.Rectangle{}
	}
	return b.img.Bounds()
}

func (b *Bitmap) Destroyed() bool { return b == nil || b.img == nil }

func (b *Bitmap) Destroy() {
	if b != nil {
		b.img = nil
	}
}

// Loader resolves resource IDs. BackgroundPath, when set, replaces the
// embedded background with a PNG or SVG file from disk.
type Loader struct {
	BackgroundPath string
	Logger         interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

func (l Loader) LoadBitmap(id ResourceID) (*Bitmap, error) {
	spec, ok := imageSpecs[id]
	if !ok {
		return nil, fmt.Errorf("%v is not an image resource", id)
	}
	if id == ImageBackground && l.BackgroundPath != "" {
		img, err := LoadImageFile(l.BackgroundPath, spec.size)
		if err != nil {
			return nil, fmt.Errorf("load %v from %s: %w", id, l.BackgroundPath, err)
		}
		l.infof("loaded %v from %s", id, l.BackgroundPath)
		return &Bitmap{ID: id, img: img}, nil
	}
	data, err := imagesFS.ReadFile(spec.file)
	if err != nil {
		return nil, fmt.Errorf("read %v: %w", id, err)
	}
	img, err := RasterizeSVG(data, spec.size)
	if err != nil {
		return nil, fmt.Errorf("rasterize %v: %w", id, err)
	}
	l.infof("loaded %v (%dx%d)", id, spec.size.X, spec.size.Y)
	return &Bitmap{ID: id, img: img}, nil
}

func (l Loader) infof(format string, args ...interface{}) {
	if l.Logger != nil {
		l.Logger.Infof("assets", format, args...)
	}
}

func (l Loader) errorf(format string, args ...interface{}) {
	if l.Logger != nil {
		l.Logger.Errorf("assets", format, args...)
	}
}

// RasterizeSVG renders an SVG document into a transparent image of size.
func RasterizeSVG(data []byte, size image.Point) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(image.Rectangle{Max: size})
	icon.SetTarget(0, 0, float64(size.X), float64(size.Y))
	scanner := rasterx.NewScannerGV(size.X, size.Y, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(size.X, size.Y, scanner)
	icon.Draw(dasher, 1.0)
	return rgba, nil
}

// LoadImageFile reads a PNG or SVG file and fits it to size.
func LoadImageFile(path string, size image.Point) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return RasterizeSVG(data, size)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(image.Rectangle{Max: size})
	if src.Bounds().Size() == size {
		draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
		return out, nil
	}
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return out, nil
}
