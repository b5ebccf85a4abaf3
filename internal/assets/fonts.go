package assets

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var fontSpecs = map[ResourceID]struct {
	ttf  []byte
	size float64
}{
	FontTime:  {gobold.TTF, 42},
	FontLabel: {gomedium.TTF, 28},
	FontSmall: {goregular.TTF, 12},
}

// LoadFont returns a face for id. The time font goes through freetype; the
// others through opentype. A face that cannot be built falls back to
// basicfont and the failure is logged, never returned.
func (l Loader) LoadFont(id ResourceID) font.Face {
	spec, ok := fontSpecs[id]
	if !ok {
		l.errorf("%v is not a font resource, using basicfont", id)
		return basicfont.Face7x13
	}
	var (
		face font.Face
		err  error
	)
	if id == FontTime {
		face, err = truetypeFace(spec.ttf, spec.size)
	} else {
		face, err = opentypeFace(spec.ttf, spec.size)
	}
	if err != nil {
		l.errorf("font %v failed, using basicfont: %v", id, err)
		return basicfont.Face7x13
	}
	l.infof("loaded %v at %.0fpx", id, spec.size)
	return face
}

func truetypeFace(ttf []byte, size float64) (font.Face, error) {
	tt, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("truetype parse: %w", err)
	}
	return truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

func opentypeFace(ttf []byte, size float64) (font.Face, error) {
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("opentype parse: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("opentype face: %w", err)
	}
	return face, nil
}
