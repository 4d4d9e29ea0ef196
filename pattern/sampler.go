package pattern

import (
	"image"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/gogpu/swatch/raster"
)

// sampleSet is the result of a window search over a swatch.
type sampleSet struct {
	windows   []image.Rectangle
	threshold float64
	relaxed   bool
	fallback  bool
}

// brightness returns the mean of the RGB channels of every pixel.
func brightness(img *raster.Pixmap) []float64 {
	data := img.Data()
	out := make([]float64, img.Width()*img.Height())
	for i := range out {
		out[i] = (float64(data[i*4]) + float64(data[i*4+1]) + float64(data[i*4+2])) / 3
	}
	return out
}

// windowSize returns a window of the given aspect (width/height) whose
// width is fraction of the swatch width, shrunk to fit the swatch.
func windowSize(w, h int, aspect, fraction float64) (ww, wh int) {
	ww = max(1, int(math.Round(float64(w)*fraction)))
	wh = max(1, int(math.Round(float64(ww)/aspect)))
	if wh > h {
		wh = h
		ww = max(1, int(math.Round(float64(wh)*aspect)))
	}
	return min(ww, w), wh
}

// findSamples looks for windows whose perimeter pixels are all brighter than
// an adaptive threshold, so units are not cut across grout lines visible in
// the swatch photo. The threshold is relaxed once if too few windows are
// found; failing that the centre window is used.
func findSamples(img *raster.Pixmap, aspect float64, p Params, rng *rand.Rand) sampleSet {
	w, h := img.Width(), img.Height()
	lum := brightness(img)
	ww, wh := windowSize(w, h, aspect, p.WindowFraction)

	set := sampleSet{threshold: math.Max(p.MinDarkness, stat.Mean(lum, nil)*p.BrightnessFactor)}
	search := func(attempts int) {
		for i := 0; i < attempts && len(set.windows) < p.MaxSamples; i++ {
			x, y := rng.IntN(w-ww+1), rng.IntN(h-wh+1)
			r := image.Rect(x, y, x+ww, y+wh)
			if perimeterAbove(lum, w, r, set.threshold) {
				set.windows = append(set.windows, r)
			}
		}
	}

	search(p.Attempts)
	if len(set.windows) < p.MinSamples {
		set.relaxed = true
		set.threshold *= p.RelaxFactor
		search(p.RelaxedAttempts)
	}
	if len(set.windows) == 0 {
		set.fallback = true
		x, y := (w-ww)/2, (h-wh)/2
		set.windows = append(set.windows, image.Rect(x, y, x+ww, y+wh))
	}
	return set
}

func perimeterAbove(lum []float64, stride int, r image.Rectangle, threshold float64) bool {
	for x := r.Min.X; x < r.Max.X; x++ {
		if lum[r.Min.Y*stride+x] <= threshold || lum[(r.Max.Y-1)*stride+x] <= threshold {
			return false
		}
	}
	for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
		if lum[y*stride+r.Min.X] <= threshold || lum[y*stride+r.Max.X-1] <= threshold {
			return false
		}
	}
	return true
}
