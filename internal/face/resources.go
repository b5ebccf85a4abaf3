package face

import (
	"image"

	"github.com/rook-computer/circuit/internal/assets"
	"golang.org/x/image/font"
)

// Bitmap is a loaded image the face owns until Deinit.
type Bitmap interface {
	Image() image.Image
	Destroy()
}

// Resources resolves build-time resource IDs.
type Resources interface {
	Bitmap(id assets.ResourceID) (Bitmap, error)
	Font(id assets.ResourceID) font.Face
}

// AssetResources serves the embedded assets.
type AssetResources struct {
	Loader assets.Loader
}

func (r AssetResources) Bitmap(id assets.ResourceID) (Bitmap, error) {
	bmp, err := r.Loader.LoadBitmap(id)
	if err != nil {
		return nil, err
	}
	return bmp, nil
}

func (r AssetResources) Font(id assets.ResourceID) font.Face {
	return r.Loader.LoadFont(id)
}
