package swatch

import (
	"github.com/gogpu/swatch/internal/parallel"
	"github.com/gogpu/swatch/raster"
)

// DefaultEdgeThreshold is the Sobel gradient magnitude above which a pixel
// counts as an edge.
const DefaultEdgeThreshold = 30.0

// EdgeMap is a binary per-pixel edge mask aligned with a photo.
// It is never mutated after BuildEdgeMap returns.
type EdgeMap struct {
	width  int
	height int
	bits   []bool
}

// BuildEdgeMap runs a 3x3 Sobel operator over the luminance of photo and
// marks every interior pixel whose gradient magnitude exceeds threshold.
// Border rows and columns are never edges.
func BuildEdgeMap(photo *raster.Pixmap, threshold float64) *EdgeMap {
	w, h := photo.Width(), photo.Height()
	e := &EdgeMap{width: w, height: h, bits: make([]bool, w*h)}
	if w < 3 || h < 3 {
		return e
	}

	lum := make([]float64, w*h)
	data := photo.Data()
	parallel.Rows(0, h, w, func(y0, y1 int) {
		for i := y0 * w; i < y1*w; i++ {
			p := data[i*4 : i*4+3]
			lum[i] = 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
		}
	})

	limit := threshold * threshold
	parallel.Rows(1, h-1, w, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			up, row, down := (y-1)*w, y*w, (y+1)*w
			for x := 1; x < w-1; x++ {
				gx := (lum[up+x+1] + 2*lum[row+x+1] + lum[down+x+1]) -
					(lum[up+x-1] + 2*lum[row+x-1] + lum[down+x-1])
				gy := (lum[down+x-1] + 2*lum[down+x] + lum[down+x+1]) -
					(lum[up+x-1] + 2*lum[up+x] + lum[up+x+1])
				if gx*gx+gy*gy > limit {
					e.bits[row+x] = true
				}
			}
		}
	})
	return e
}

// Width returns the edge map width.
func (e *EdgeMap) Width() int { return e.width }

// Height returns the edge map height.
func (e *EdgeMap) Height() int { return e.height }

// At reports whether (x, y) is an edge. Coordinates outside the map are not.
func (e *EdgeMap) At(x, y int) bool {
	if e == nil || x < 0 || x >= e.width || y < 0 || y >= e.height {
		return false
	}
	return e.bits[y*e.width+x]
}

// Set marks or clears an edge. It exists for building synthetic maps.
func (e *EdgeMap) Set(x, y int, edge bool) {
	if x < 0 || x >= e.width || y < 0 || y >= e.height {
		return
	}
	e.bits[y*e.width+x] = edge
}

// NewEdgeMap returns an edge map with no edges.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{width: width, height: height, bits: make([]bool, width*height)}
}

// Count returns the number of edge pixels.
func (e *EdgeMap) Count() int {
	n := 0
	for _, b := range e.bits {
		if b {
			n++
		}
	}
	return n
}
