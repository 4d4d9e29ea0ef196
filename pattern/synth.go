package pattern

import (
	"context"
	"image"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/gogpu/swatch/internal/blend"
	"github.com/gogpu/swatch/raster"
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithSource injects the random source. Pin it in tests to get
// reproducible textures; production uses the runtime's random generator.
func WithSource(src rand.Source) Option {
	return func(s *Synthesizer) {
		if src != nil {
			s.src = src
		}
	}
}

// WithParams sets the calibration. Zero fields keep their defaults.
func WithParams(p Params) Option {
	return func(s *Synthesizer) {
		s.params = p.withDefaults()
	}
}

// Synthesizer renders tileable pattern patches. It is safe for concurrent
// use; each call derives its own generator from the shared source.
type Synthesizer struct {
	params Params

	mu  sync.Mutex
	src rand.Source
}

// runtimeSource draws from the auto-seeded top-level generator.
type runtimeSource struct{}

func (runtimeSource) Uint64() uint64 { return rand.Uint64() }

// NewSynthesizer returns a synthesizer with default calibration.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{params: DefaultParams(), src: runtimeSource{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params returns the active calibration.
func (s *Synthesizer) Params() Params { return s.params }

func (s *Synthesizer) newRand() *rand.Rand {
	s.mu.Lock()
	a, b := s.src.Uint64(), s.src.Uint64()
	s.mu.Unlock()
	return rand.New(rand.NewPCG(a, b))
}

// Synthesize renders one repeat patch of m laid in cfg's bond. The result is
// opaque wherever grout or an opaque swatch pixel lands.
//
// The output is intentionally different on every call; cache it per Key.
// ErrNoMaterialImage is returned when m has no image. ctx is checked
// between units.
func (s *Synthesizer) Synthesize(ctx context.Context, m Material, cfg Config) (*raster.Pixmap, error) {
	if m.Image.Empty() {
		return nil, ErrNoMaterialImage
	}
	start := time.Now()
	rng := s.newRand()

	uw, uh := unitSize(m, cfg.SizeMode, s.params)
	lay := planLayout(cfg.Bond, uw, uh, s.params)
	patch := raster.NewPixmap(lay.width, lay.height)
	fillGrout(patch, cfg.Grout, rng, s.params)

	aspect := float64(max(uw, uh)) / float64(min(uw, uh))
	samples := findSamples(m.Image, aspect, s.params, rng)
	if samples.fallback {
		slogger().Warn("pattern: no clean sample window, using swatch centre",
			"material", m.ID, "threshold", samples.threshold)
	}

	fx := effects{speckle: newSpeckle(rng), mottle: newMottle(rng)}
	src := m.Image.ToImage()
	for i, u := range lay.units {
		if i%8 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		tile := renderUnit(src, samples.windows, u, rng, &fx)
		for _, at := range lay.wrapOrigins(u.rect) {
			drawOver(patch, tile, at)
		}
	}

	slogger().Debug("pattern: synthesized",
		"material", m.ID,
		"bond", cfg.Bond.String(),
		"unit", image.Pt(uw, uh),
		"patch", image.Pt(lay.width, lay.height),
		"units", len(lay.units),
		"samples", len(samples.windows),
		"relaxed", samples.relaxed,
		"elapsed", time.Since(start))
	return patch, nil
}

// effects carries the per-synthesis overlay sources shared by all units.
type effects struct {
	speckle *speckle
	mottle  mottle
}

// tint is the batch color shift of one unit.
type tint struct {
	dark, light float64
}

func randomTint(rng *rand.Rand) tint {
	amount := 0.04 + rng.Float64()*0.1
	switch v := rng.Float64(); {
	case v < 0.3:
		return tint{}
	case v < 0.6:
		return tint{dark: amount}
	default:
		return tint{light: amount}
	}
}

// cutSample crops a random window, flips it at random and turns it a
// quarter for portrait units so the source grain follows the long side.
func cutSample(src *image.NRGBA, windows []image.Rectangle, u unit, rng *rand.Rand) *image.NRGBA {
	win := windows[rng.IntN(len(windows))]
	sample := imaging.Crop(src, win)
	if rng.IntN(2) == 0 {
		sample = imaging.FlipH(sample)
	}
	if rng.IntN(2) == 0 {
		sample = imaging.FlipV(sample)
	}
	if u.portrait {
		sample = imaging.Rotate90(sample)
	}
	return sample
}

// renderUnit cuts a random sample window, flips it at random, rotates it for
// portrait units, scales it to the unit footprint and applies tint, speckle,
// bevel and vignette.
func renderUnit(src *image.NRGBA, windows []image.Rectangle, u unit, rng *rand.Rand, fx *effects) *image.NRGBA {
	sample := cutSample(src, windows, u, rng)

	w, h := u.rect.Dx(), u.rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), sample, sample.Bounds(), draw.Src, nil)

	t := randomTint(rng)
	sx, sy := rng.IntN(speckleSize), rng.IntN(speckleSize)
	bevel := float64(max(2, min(w, h)/10))
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := dst.PixOffset(x, y)
			grain := fx.speckle.at(x+sx, y+sy) + fx.mottle.at(u.rect.Min.X+x, u.rect.Min.Y+y)

			lit, shade := 0.0, 0.0
			if d := float64(x); d < bevel {
				lit += 0.22 * (1 - d/bevel)
			}
			if d := float64(y); d < bevel {
				lit += 0.22 * (1 - d/bevel)
			}
			if d := float64(w - 1 - x); d < bevel {
				shade += 0.28 * (1 - d/bevel)
			}
			if d := float64(h - 1 - y); d < bevel {
				shade += 0.28 * (1 - d/bevel)
			}

			dx, dy := (float64(x)+0.5-cx)/cx, (float64(y)+0.5-cy)/cy
			vignette := 1 - 0.12*math.Min(1, (dx*dx+dy*dy)/2)

			for c := 0; c < 3; c++ {
				v := float64(dst.Pix[i+c])
				v = v*(1-t.dark) + (255-v)*t.light
				v = (v + grain) * vignette
				v += (255 - v) * math.Min(lit, 1)
				v *= 1 - math.Min(shade, 1)
				dst.Pix[i+c] = clamp8(v)
			}
		}
	}
	return dst
}

// drawOver composites tile onto the patch with its top-left corner at at,
// clipping to the patch.
func drawOver(patch *raster.Pixmap, tile *image.NRGBA, at image.Point) {
	r := tile.Rect.Add(at).Intersect(patch.Bounds())
	data := patch.Data()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := tile.PixOffset(x-at.X, y-at.Y)
			d := patch.Offset(x, y)
			data[d], data[d+1], data[d+2], data[d+3] = blend.Over(
				tile.Pix[s], tile.Pix[s+1], tile.Pix[s+2], tile.Pix[s+3],
				data[d], data[d+1], data[d+2], data[d+3])
		}
	}
}
