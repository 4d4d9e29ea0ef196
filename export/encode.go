package export

import (
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gogpu/swatch/raster"
)

// DefaultJPEGQuality is used when a non-positive quality is requested.
const DefaultJPEGQuality = 90

var (
	// ErrEmptyFrame is returned when there is nothing to export.
	ErrEmptyFrame = errors.New("export: empty frame")

	// ErrUnknownFormat is returned by ParseFormat for unsupported names.
	ErrUnknownFormat = errors.New("export: unknown format")
)

// Format is an export file format.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatPDF
)

// ParseFormat accepts png, jpg, jpeg and pdf. Empty selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	}
	return FormatPNG, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPDF:
		return ".pdf"
	default:
		return ".png"
	}
}

// EncodePNG writes frame as PNG.
func EncodePNG(w io.Writer, frame *raster.Pixmap) error {
	if frame.Empty() {
		return ErrEmptyFrame
	}
	if err := png.Encode(w, frame.ToImage()); err != nil {
		return fmt.Errorf("export: png: %w", err)
	}
	return nil
}

// EncodeJPEG writes frame as JPEG. Quality outside 1..100 uses the default.
func EncodeJPEG(w io.Writer, frame *raster.Pixmap, quality int) error {
	if frame.Empty() {
		return ErrEmptyFrame
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := jpeg.Encode(w, frame.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("export: jpeg: %w", err)
	}
	return nil
}
