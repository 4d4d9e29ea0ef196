package pattern

import (
	"image/color"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"

	"github.com/gogpu/swatch/raster"
)

const (
	speckleSize  = 64
	mottleScale  = 40.0
	mottleAmount = 8.0
)

// fillGrout paints the patch with the grout color and sprinkles it with
// darker and lighter grains so it reads as sand rather than flat paint.
func fillGrout(patch *raster.Pixmap, grout color.NRGBA, rng *rand.Rand, p Params) {
	data := patch.Data()
	for i := 0; i < len(data); i += 4 {
		r, g, b := float64(grout.R), float64(grout.G), float64(grout.B)
		switch v := rng.Float64(); {
		case v < p.GroutDarken:
			f := 1 - (0.08 + rng.Float64()*0.12)
			r, g, b = r*f, g*f, b*f
		case v < p.GroutDarken+p.GroutLighten:
			f := 0.06 + rng.Float64()*0.1
			r, g, b = r+(255-r)*f, g+(255-g)*f, b+(255-b)*f
		}
		data[i], data[i+1], data[i+2], data[i+3] = clamp8(r), clamp8(g), clamp8(b), 255
	}
}

// speckle is a wrap-around tile of signed brightness offsets.
type speckle [speckleSize * speckleSize]int8

func newSpeckle(rng *rand.Rand) *speckle {
	var s speckle
	for i := range s {
		switch v := rng.Float64(); {
		case v < 0.03:
			s[i] = -int8(18 + rng.IntN(13))
		case v < 0.05:
			s[i] = int8(10 + rng.IntN(11))
		}
	}
	return &s
}

func (s *speckle) at(x, y int) float64 {
	x = ((x % speckleSize) + speckleSize) % speckleSize
	y = ((y % speckleSize) + speckleSize) % speckleSize
	return float64(s[y*speckleSize+x])
}

// mottle is low-frequency Perlin noise that breaks up flat unit faces.
type mottle struct {
	p *perlin.Perlin
}

func newMottle(rng *rand.Rand) mottle {
	return mottle{p: perlin.NewPerlin(2.0, 2.0, 3, rng.Int64())}
}

func (m mottle) at(x, y int) float64 {
	return m.p.Noise2D(float64(x)/mottleScale, float64(y)/mottleScale) * mottleAmount
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
