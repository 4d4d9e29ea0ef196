package swatch

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"

	"github.com/gogpu/swatch/raster"
)

// Tolerance bounds accepted by Segment. Values outside are clamped.
const (
	MinTolerance     = 1
	MaxTolerance     = 100
	DefaultTolerance = 30
)

// DefaultBlurSigma softens the selection boundary by about half a pixel.
const DefaultBlurSigma = 0.5

// toleranceScale converts the user-facing tolerance into a redmean distance.
const toleranceScale = 4.0

// SegmentOption configures a single Segment call.
type SegmentOption func(*segmentOptions)

type segmentOptions struct {
	blurSigma float64
	closing   bool
}

func defaultSegmentOptions() segmentOptions {
	return segmentOptions{blurSigma: DefaultBlurSigma, closing: true}
}

// WithBlurSigma sets the Gaussian sigma used to anti-alias the region
// boundary. Zero disables the blur.
func WithBlurSigma(sigma float64) SegmentOption {
	return func(o *segmentOptions) {
		o.blurSigma = max(sigma, 0)
	}
}

// WithClosing enables or disables the one-pixel cross dilation that fills
// speckle holes in the grown region.
func WithClosing(enabled bool) SegmentOption {
	return func(o *segmentOptions) {
		o.closing = enabled
	}
}

// RedmeanDistance returns the perceptually weighted distance between two
// colors. Green differences weigh most; red and blue weights shift with the
// mean red level.
func RedmeanDistance(a, b color.NRGBA) float64 {
	rmean := (float64(a.R) + float64(b.R)) / 2
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	wr := 2 + rmean/256
	wb := 2 + (255-rmean)/256
	return math.Sqrt(wr*dr*dr + 4*dg*dg + wb*db*db)
}

// ClampTolerance limits t to [MinTolerance, MaxTolerance].
func ClampTolerance(t int) int {
	return min(max(t, MinTolerance), MaxTolerance)
}

// DisplayToImage converts a point in displayed coordinates into image
// coordinates for a photo shown at displayScale (display px per image px).
func DisplayToImage(x, y, displayScale float64) image.Point {
	if displayScale <= 0 {
		displayScale = 1
	}
	return image.Pt(int(math.Floor(x/displayScale)), int(math.Floor(y/displayScale)))
}

// Segment grows a region from seed. A pixel joins the region when it is not
// an edge and its redmean distance to the seed color is below
// tolerance*4. The region is then closed with a one-pixel cross dilation and
// blurred slightly.
//
// Dilation can cover the edge pixels bordering the region, and the blur
// then leaks a low coverage one pixel further, so coverage never extends
// more than two pixels past the last accepted pixel. Across a detected edge
// that is at most one pixel onto the far side. Border rows and columns carry
// no edges, so there the fill stops at the colour boundary itself.
//
// The result is a new mask the size of photo. A seed outside the photo or on
// an edge yields an empty mask; that is not an error.
func Segment(photo *raster.Pixmap, edges *EdgeMap, seed image.Point, tolerance int, opts ...SegmentOption) *raster.Mask {
	o := defaultSegmentOptions()
	for _, opt := range opts {
		opt(&o)
	}

	region := floodFill(photo, edges, seed, tolerance)
	if region.IsEmpty() {
		return region
	}
	if o.closing {
		region = dilateCross(region)
	}
	if o.blurSigma > 0 {
		region = blurMask(region, o.blurSigma)
	}
	return region
}

// floodFill is the edge-stopped fill without post-processing.
func floodFill(photo *raster.Pixmap, edges *EdgeMap, seed image.Point, tolerance int) *raster.Mask {
	w, h := photo.Width(), photo.Height()
	region := raster.NewMask(w, h)
	if !photo.In(seed.X, seed.Y) {
		return region
	}

	limit := float64(ClampTolerance(tolerance)) * toleranceScale
	ref := photo.RGBAAt(seed.X, seed.Y)
	out := region.Data()
	visited := make([]bool, w*h)
	stack := []int{seed.Y*w + seed.X}
	visited[stack[0]] = true

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if edges.At(x, y) || RedmeanDistance(ref, photo.RGBAAt(x, y)) >= limit {
			continue
		}
		out[i] = 255

		if x > 0 && !visited[i-1] {
			visited[i-1] = true
			stack = append(stack, i-1)
		}
		if x < w-1 && !visited[i+1] {
			visited[i+1] = true
			stack = append(stack, i+1)
		}
		if y > 0 && !visited[i-w] {
			visited[i-w] = true
			stack = append(stack, i-w)
		}
		if y < h-1 && !visited[i+w] {
			visited[i+w] = true
			stack = append(stack, i+w)
		}
	}
	return region
}

// dilateCross stamps the region at its own position and shifted one pixel in
// each cardinal direction.
func dilateCross(m *raster.Mask) *raster.Mask {
	out := m.Clone()
	for _, d := range [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		for y := 0; y < m.Height(); y++ {
			for x := 0; x < m.Width(); x++ {
				if v := m.At(x, y); v > out.At(x+d.X, y+d.Y) {
					out.Set(x+d.X, y+d.Y, v)
				}
			}
		}
	}
	return out
}

func blurMask(m *raster.Mask, sigma float64) *raster.Mask {
	g := gift.New(gift.GaussianBlur(float32(sigma)))
	src := m.Gray()
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return raster.MaskFromGray(dst)
}
