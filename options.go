package swatch

import (
	"time"

	"github.com/gogpu/swatch/composite"
	"github.com/gogpu/swatch/pattern"
)

// DefaultModelDelay is how long a new session reports not ready.
const DefaultModelDelay = 1500 * time.Millisecond

// Option configures a Session during creation.
//
// Example:
//
//	s := swatch.NewSession(
//	    swatch.WithTolerance(45),
//	    swatch.WithSynthesizer(pattern.NewSynthesizer(pattern.WithParams(p))),
//	)
type Option func(*options)

type options struct {
	edgeThreshold float64
	tolerance     int
	blurSigma     float64
	synth         *pattern.Synthesizer
	cacheSize     int
	debounce      time.Duration
	composite     composite.Params
	modelDelay    time.Duration
}

func defaultOptions() options {
	return options{
		edgeThreshold: DefaultEdgeThreshold,
		tolerance:     DefaultTolerance,
		blurSigma:     DefaultBlurSigma,
		cacheSize:     pattern.DefaultCacheSize,
		debounce:      pattern.DefaultDebounce,
		composite:     composite.DefaultParams(),
		modelDelay:    DefaultModelDelay,
	}
}

// WithEdgeThreshold sets the Sobel magnitude above which pixels are edges.
func WithEdgeThreshold(t float64) Option {
	return func(o *options) {
		if t > 0 {
			o.edgeThreshold = t
		}
	}
}

// WithTolerance sets the initial click tolerance (1-100).
func WithTolerance(t int) Option {
	return func(o *options) {
		o.tolerance = ClampTolerance(t)
	}
}

// WithSegmentBlur sets the anti-alias blur applied to grown regions.
// Zero disables it.
func WithSegmentBlur(sigma float64) Option {
	return func(o *options) {
		o.blurSigma = max(sigma, 0)
	}
}

// WithSynthesizer injects the texture synthesizer, typically one with a
// pinned random source or custom calibration.
func WithSynthesizer(s *pattern.Synthesizer) Option {
	return func(o *options) {
		o.synth = s
	}
}

// WithCacheSize sets how many synthesized textures are kept.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithDebounce sets the delay between a pattern change and the background
// synthesis it triggers.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithCompositeParams sets the relight pass opacities.
func WithCompositeParams(p composite.Params) Option {
	return func(o *options) {
		o.composite = p
	}
}

// WithModelDelay sets how long the session reports not ready after
// creation. Zero makes it ready immediately.
func WithModelDelay(d time.Duration) Option {
	return func(o *options) {
		o.modelDelay = max(d, 0)
	}
}
