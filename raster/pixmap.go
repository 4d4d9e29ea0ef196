package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// Pixmap is a rectangular buffer of straight-alpha RGBA pixels.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel, row-major
}

// NewPixmap creates a transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// FromImage copies any image into a new pixmap with its origin at (0,0).
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < pm.height; y++ {
			off := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pm.data[y*pm.width*4:(y+1)*pm.width*4], nrgba.Pix[off:off+pm.width*4])
		}
		return pm
	}
	dst := &image.NRGBA{Pix: pm.data, Stride: pm.width * 4, Rect: image.Rect(0, 0, pm.width, pm.height)}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return pm
}

// Width returns the pixmap width.
func (p *Pixmap) Width() int { return p.width }

// Height returns the pixmap height.
func (p *Pixmap) Height() int { return p.height }

// Empty reports whether the pixmap has no pixels.
func (p *Pixmap) Empty() bool { return p == nil || p.width == 0 || p.height == 0 }

// Data returns the raw RGBA bytes.
func (p *Pixmap) Data() []uint8 { return p.data }

// Offset returns the byte offset of (x, y). The caller checks bounds.
func (p *Pixmap) Offset(x, y int) int { return (y*p.width + x) * 4 }

// In reports whether (x, y) lies inside the pixmap.
func (p *Pixmap) In(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// RGBAAt returns the pixel at (x, y), or transparent black outside the bounds.
func (p *Pixmap) RGBAAt(x, y int) color.NRGBA {
	if !p.In(x, y) {
		return color.NRGBA{}
	}
	i := p.Offset(x, y)
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// SetRGBA sets the pixel at (x, y). Out-of-bounds writes are ignored.
func (p *Pixmap) SetRGBA(x, y int, c color.NRGBA) {
	if !p.In(x, y) {
		return
	}
	i := p.Offset(x, y)
	p.data[i], p.data[i+1], p.data[i+2], p.data[i+3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (p *Pixmap) Fill(c color.NRGBA) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i], p.data[i+1], p.data[i+2], p.data[i+3] = c.R, c.G, c.B, c.A
	}
}

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	c := &Pixmap{width: p.width, height: p.height, data: make([]uint8, len(p.data))}
	copy(c.data, p.data)
	return c
}

// Equal reports whether both pixmaps have the same size and pixels.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.data {
		if p.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// ToImage returns the pixels as an *image.NRGBA sharing no memory with p.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color { return p.RGBAAt(x, y) }

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model { return color.NRGBAModel }
