// Package composite renders the final preview frame: the synthesized
// texture is tiled under the user's scale and rotation, cut to the
// selection mask, relit from the base photo and merged onto it.
package composite

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/swatch/internal/affine"
	"github.com/gogpu/swatch/internal/blend"
	"github.com/gogpu/swatch/internal/parallel"
	"github.com/gogpu/swatch/raster"
)

// grainSize is the side of the square film-grain tile.
const grainSize = 128

// View is the user's texture transform, applied about the photo centre.
type View struct {
	Scale    float64 `json:"scale"`    // 1 draws the texture at its native size
	Rotation float64 `json:"rotation"` // degrees, clockwise in image space
}

// DefaultView draws the texture unscaled and unrotated.
func DefaultView() View { return View{Scale: 1} }

func (v View) normalized() View {
	if v.Scale <= 0 || math.IsNaN(v.Scale) || math.IsInf(v.Scale, 0) {
		v.Scale = 1
	}
	if math.IsNaN(v.Rotation) || math.IsInf(v.Rotation, 0) {
		v.Rotation = 0
	}
	v.Rotation = math.Mod(v.Rotation, 360)
	return v
}

// Params are the opacities of the relight passes, each in [0,1].
type Params struct {
	Multiply  float64
	SoftLight float64
	Overlay   float64
	Grain     float64
}

// DefaultParams returns the stock relight stack.
func DefaultParams() Params {
	return Params{Multiply: 0.75, SoftLight: 0.60, Overlay: 0.20, Grain: 0.08}
}

// pass is one relight step: the base photo blended onto the texture layer.
type pass struct {
	mode    blend.Mode
	opacity byte
}

// Compositor renders frames. It holds no per-frame state and is safe for
// concurrent use.
type Compositor struct {
	passes []pass
	grain  []uint8
	gop    byte
}

// New returns a compositor with the given pass opacities.
func New(p Params) *Compositor {
	c := &Compositor{
		passes: []pass{
			{blend.ModeMultiply, blend.Opacity(p.Multiply)},
			{blend.ModeSoftLight, blend.Opacity(p.SoftLight)},
			{blend.ModeOverlay, blend.Opacity(p.Overlay)},
		},
		grain: make([]uint8, grainSize*grainSize),
		gop:   blend.Opacity(p.Grain),
	}
	rng := rand.New(rand.NewPCG(0x5eed, 0x6a1e))
	for i := range c.grain {
		c.grain[i] = uint8(rng.IntN(256))
	}
	return c
}

// Render composites texture into the masked area of base and returns a new
// frame. base and mask are not modified. A nil or empty mask, or a missing
// texture, returns a copy of base.
func (c *Compositor) Render(base *raster.Pixmap, mask *raster.Mask, texture *raster.Pixmap, view View) *raster.Pixmap {
	out := base.Clone()
	if mask == nil || texture.Empty() || base.Empty() {
		return out
	}
	if mask.Width() != base.Width() || mask.Height() != base.Height() {
		slogger().Warn("composite: mask size does not match photo",
			"mask", mask.Bounds().Size(), "photo", base.Bounds().Size())
		return out
	}
	area := mask.Coverage()
	if area.Empty() {
		return out
	}

	view = view.normalized()
	cx, cy := float64(base.Width())/2, float64(base.Height())/2
	inv, ok := affine.About(cx, cy, view.Scale, view.Rotation*math.Pi/180).Invert()
	if !ok {
		inv = affine.Identity()
	}

	data := out.Data()
	parallel.Rows(area.Min.Y, area.Max.Y, area.Dx(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				m := mask.At(x, y)
				if m == 0 {
					continue
				}
				u, v := inv.Apply(float64(x)+0.5, float64(y)+0.5)
				tr, tg, tb, ta := sampleRepeat(texture, u-0.5, v-0.5)

				// Cut to shape.
				la := blend.DestinationIn(m, ta)
				if la == 0 {
					continue
				}

				i := out.Offset(x, y)
				br, bg, bb := data[i], data[i+1], data[i+2]
				for _, p := range c.passes {
					tr, tg, tb = blend.Atop(p.mode, tr, tg, tb, br, bg, bb, p.opacity)
				}
				g := c.grain[(y%grainSize)*grainSize+x%grainSize]
				tr, tg, tb = blend.Atop(blend.ModeNormal, tr, tg, tb, g, g, g, c.gop)

				data[i], data[i+1], data[i+2], data[i+3] = blend.Over(tr, tg, tb, la, br, bg, bb, data[i+3])
			}
		}
	})
	return out
}

// sampleRepeat bilinearly samples tex at (u, v) with repeat wrapping, so
// every point of the plane is covered.
func sampleRepeat(tex *raster.Pixmap, u, v float64) (r, g, b, a byte) {
	w, h := tex.Width(), tex.Height()
	fx, fy := math.Floor(u), math.Floor(v)
	tx, ty := u-fx, v-fy
	x0, y0 := wrap(int(fx), w), wrap(int(fy), h)
	x1, y1 := wrap(x0+1, w), wrap(y0+1, h)

	d := tex.Data()
	p00, p10 := tex.Offset(x0, y0), tex.Offset(x1, y0)
	p01, p11 := tex.Offset(x0, y1), tex.Offset(x1, y1)
	mix := func(c int) byte {
		top := float64(d[p00+c])*(1-tx) + float64(d[p10+c])*tx
		bot := float64(d[p01+c])*(1-tx) + float64(d[p11+c])*tx
		return byte(top*(1-ty) + bot*ty + 0.5)
	}
	return mix(0), mix(1), mix(2), mix(3)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
