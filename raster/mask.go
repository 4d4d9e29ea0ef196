package raster

import "image"

// Mask is an alpha-only coverage buffer aligned with a photo.
// 0 means not selected and 255 means fully selected.
type Mask struct {
	width  int
	height int
	data   []uint8
}

// NewMask creates an all-zero mask.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// MaskFromGray copies an 8-bit gray image into a new mask.
func MaskFromGray(g *image.Gray) *Mask {
	b := g.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.height; y++ {
		off := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(m.data[y*m.width:(y+1)*m.width], g.Pix[off:off+m.width])
	}
	return m
}

// Gray returns the mask as an *image.Gray sharing no memory with m.
func (m *Mask) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.width, m.height))
	copy(g.Pix, m.data)
	return g
}

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// At returns the coverage at (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set sets the coverage at (x, y). Out-of-bounds writes are ignored.
func (m *Mask) Set(x, y int, value uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = value
}

// Fill sets every value.
func (m *Mask) Fill(value uint8) {
	for i := range m.data {
		m.data[i] = value
	}
}

// Invert replaces each value v with 255-v.
func (m *Mask) Invert() {
	for i := range m.data {
		m.data[i] = 255 - m.data[i]
	}
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.width, m.height)
	copy(c.data, m.data)
	return c
}

// Data returns the underlying coverage slice.
func (m *Mask) Data() []uint8 {
	return m.data
}

// Count returns the number of pixels with non-zero coverage.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, v := range m.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no pixel has coverage.
func (m *Mask) IsEmpty() bool { return m.Count() == 0 }

// Equal reports whether both masks have identical dimensions and values.
func (m *Mask) Equal(o *Mask) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Coverage returns the smallest rectangle containing every covered pixel.
// It is empty when the mask is empty.
func (m *Mask) Coverage() image.Rectangle {
	minX, minY, maxX, maxY := m.width, m.height, -1, -1
	for y := 0; y < m.height; y++ {
		row := m.data[y*m.width : (y+1)*m.width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Components returns the number of 4-connected groups of covered pixels.
func (m *Mask) Components() int {
	seen := make([]bool, len(m.data))
	stack := make([]int, 0, 64)
	n := 0
	for start, v := range m.data {
		if v == 0 || seen[start] {
			continue
		}
		n++
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%m.width, i/m.width
			for _, nb := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				if nb[0] < 0 || nb[0] >= m.width || nb[1] < 0 || nb[1] >= m.height {
					continue
				}
				j := nb[1]*m.width + nb[0]
				if m.data[j] != 0 && !seen[j] {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}
	}
	return n
}
