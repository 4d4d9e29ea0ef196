package raster

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// ErrDecode is returned when image bytes cannot be decoded.
var ErrDecode = errors.New("raster: cannot decode image")

// Decode reads a PNG, JPEG, GIF, BMP or TIFF image and returns it as a
// pixmap. EXIF orientation is applied.
func Decode(r io.Reader) (*Pixmap, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	pm := FromImage(img)
	if pm.Empty() {
		return nil, fmt.Errorf("%w: zero-sized image", ErrDecode)
	}
	return pm, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (*Pixmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
