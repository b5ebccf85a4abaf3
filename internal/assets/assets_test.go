package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestLoadBitmap_Embedded(t *testing.T) {
	var l Loader
	tests := []struct {
		id   ResourceID
		size image.Point
	}{
		{ImageBackground, image.Pt(144, 168)},
		{ImagePower, image.Pt(13, 13)},
		{ImageCharging, image.Pt(13, 13)},
	}
	for _, tc := range tests {
		bmp, err := l.LoadBitmap(tc.id)
		if err != nil {
			t.Fatalf("LoadBitmap(%v) err=%v", tc.id, err)
		}
		if got := bmp.Bounds().Size(); got != tc.size {
			t.Errorf("%v size = %v, want %v", tc.id, got, tc.size)
		}
	}
}

func TestLoadBitmap_BackgroundIsOpaque(t *testing.T) {
	bmp, err := Loader{}.LoadBitmap(ImageBackground)
	if err != nil {
		t.Fatalf("LoadBitmap err=%v", err)
	}
	rgba := bmp.Image().(*image.RGBA)
	if got := rgba.RGBAAt(100, 100); got.A != 0xFF {
		t.Errorf("background pixel alpha = %d, want opaque", got.A)
	}
}

func TestLoadBitmap_IconsHaveInk(t *testing.T) {
	for _, id := range []ResourceID{ImagePower, ImageCharging} {
		bmp, err := Loader{}.LoadBitmap(id)
		if err != nil {
			t.Fatalf("LoadBitmap(%v) err=%v", id, err)
		}
		rgba := bmp.Image().(*image.RGBA)
		ink := 0
		for i := 3; i < len(rgba.Pix); i += 4 {
			if rgba.Pix[i] > 0x80 {
				ink++
			}
		}
		if ink == 0 {
			t.Errorf("%v rendered no opaque pixels", id)
		}
	}
}

func TestLoadBitmap_NotAnImage(t *testing.T) {
	if _, err := (Loader{}).LoadBitmap(FontSmall); err == nil {
		t.Error("expected an error for a font ID")
	}
}

func TestLoadBitmap_BackgroundOverridePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 72, 84))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	bmp, err := Loader{BackgroundPath: path}.LoadBitmap(ImageBackground)
	if err != nil {
		t.Fatalf("LoadBitmap err=%v", err)
	}
	if got := bmp.Bounds().Size(); got != image.Pt(144, 168) {
		t.Errorf("scaled size = %v", got)
	}
	rgba := bmp.Image().(*image.RGBA)
	if got := rgba.RGBAAt(70, 80); got != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("scaled pixel = %v, want white", got)
	}
}

func TestLoadBitmap_BackgroundOverrideMissing(t *testing.T) {
	_, err := Loader{BackgroundPath: filepath.Join(t.TempDir(), "nope.png")}.LoadBitmap(ImageBackground)
	if err == nil {
		t.Error("expected an error for a missing override")
	}
}

func TestBitmap_Destroy(t *testing.T) {
	bmp, err := Loader{}.LoadBitmap(ImagePower)
	if err != nil {
		t.Fatal(err)
	}
	bmp.Destroy()
	if !bmp.Destroyed() || bmp.Image() != nil {
		t.Error("destroyed bitmap still exposes pixels")
	}
}

func TestLoadFont(t *testing.T) {
	var l Loader
	for _, id := range []ResourceID{FontTime, FontLabel, FontSmall} {
		face := l.LoadFont(id)
		if face == basicfont.Face7x13 {
			t.Errorf("%v fell back to basicfont", id)
		}
	}
	if face := l.LoadFont(ImagePower); face != basicfont.Face7x13 {
		t.Error("non-font ID should fall back to basicfont")
	}
	big := l.LoadFont(FontTime).Metrics().Height.Ceil()
	small := l.LoadFont(FontSmall).Metrics().Height.Ceil()
	if big <= small {
		t.Errorf("time font height %d not larger than small %d", big, small)
	}
}
