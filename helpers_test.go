package swatch

import (
	"image/color"

	"github.com/gogpu/swatch/raster"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func solidPhoto(w, h int, c color.NRGBA) *raster.Pixmap {
	pm := raster.NewPixmap(w, h)
	pm.Fill(c)
	return pm
}

// splitPhoto paints columns [0, split) left and the rest right.
func splitPhoto(w, h, split int, left, right color.NRGBA) *raster.Pixmap {
	pm := raster.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < split {
				pm.SetRGBA(x, y, left)
			} else {
				pm.SetRGBA(x, y, right)
			}
		}
	}
	return pm
}

// gradientPhoto increases red by step per column.
func gradientPhoto(w, h, step int) *raster.Pixmap {
	pm := raster.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pm.SetRGBA(x, y, color.NRGBA{R: uint8(min(x*step, 255)), G: 40, B: 40, A: 255})
		}
	}
	return pm
}

func rectMask(w, h, x0, y0, x1, y1 int) *raster.Mask {
	m := raster.NewMask(w, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, 255)
		}
	}
	return m
}
