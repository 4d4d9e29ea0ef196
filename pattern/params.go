package pattern

// Params holds the synthesizer's calibration values. Zero fields take the
// DefaultParams value.
type Params struct {
	// Joint is the grout line thickness in pixels.
	Joint int
	// UnitCap bounds the longer unit side in pixels.
	UnitCap int
	// Repeat is the number of units per patch side for grid bonds.
	Repeat int
	// DefaultUnit is used when a material declares no size.
	DefaultUnit Size
	// LinearUnit is used in SizeLinear mode.
	LinearUnit Size

	// MinDarkness is the floor of the adaptive perimeter threshold.
	MinDarkness float64
	// BrightnessFactor scales the swatch's mean brightness into the threshold.
	BrightnessFactor float64
	// MaxSamples stops the window search early.
	MaxSamples int
	// MinSamples triggers the relaxed second pass when not reached.
	MinSamples int
	// Attempts bounds the first search pass.
	Attempts int
	// RelaxedAttempts bounds the second pass.
	RelaxedAttempts int
	// RelaxFactor scales the threshold for the second pass.
	RelaxFactor float64
	// WindowFraction is the sample window width relative to the swatch width.
	WindowFraction float64

	// GroutDarken and GroutLighten are per-pixel speckle probabilities.
	GroutDarken  float64
	GroutLighten float64
}

// DefaultParams returns the stock calibration.
func DefaultParams() Params {
	return Params{
		Joint:            15,
		UnitCap:          400,
		Repeat:           4,
		DefaultUnit:      Size{W: 300, H: 100},
		LinearUnit:       Size{W: 300, H: 50},
		MinDarkness:      20,
		BrightnessFactor: 0.6,
		MaxSamples:       50,
		MinSamples:       5,
		Attempts:         3000,
		RelaxedAttempts:  1000,
		RelaxFactor:      0.6,
		WindowFraction:   0.25,
		GroutDarken:      0.2,
		GroutLighten:     0.1,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Joint <= 0 {
		p.Joint = d.Joint
	}
	if p.UnitCap <= 0 {
		p.UnitCap = d.UnitCap
	}
	if p.Repeat <= 0 {
		p.Repeat = d.Repeat
	}
	if !p.DefaultUnit.Valid() {
		p.DefaultUnit = d.DefaultUnit
	}
	if !p.LinearUnit.Valid() {
		p.LinearUnit = d.LinearUnit
	}
	if p.MinDarkness <= 0 {
		p.MinDarkness = d.MinDarkness
	}
	if p.BrightnessFactor <= 0 {
		p.BrightnessFactor = d.BrightnessFactor
	}
	if p.MaxSamples <= 0 {
		p.MaxSamples = d.MaxSamples
	}
	if p.MinSamples <= 0 {
		p.MinSamples = d.MinSamples
	}
	if p.Attempts <= 0 {
		p.Attempts = d.Attempts
	}
	if p.RelaxedAttempts <= 0 {
		p.RelaxedAttempts = d.RelaxedAttempts
	}
	if p.RelaxFactor <= 0 {
		p.RelaxFactor = d.RelaxFactor
	}
	if p.WindowFraction <= 0 || p.WindowFraction > 1 {
		p.WindowFraction = d.WindowFraction
	}
	if p.GroutDarken <= 0 {
		p.GroutDarken = d.GroutDarken
	}
	if p.GroutLighten <= 0 {
		p.GroutLighten = d.GroutLighten
	}
	return p
}
