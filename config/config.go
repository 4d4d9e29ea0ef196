// Package config loads the engine and server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/swatch"
	"github.com/gogpu/swatch/composite"
	"github.com/gogpu/swatch/export"
	"github.com/gogpu/swatch/pattern"
)

// Config holds every tunable of the engine and its front ends.
type Config struct {
	Segment   SegmentConfig   `yaml:"segment"`
	Pattern   PatternConfig   `yaml:"pattern"`
	Composite CompositeConfig `yaml:"composite"`
	Export    ExportConfig    `yaml:"export"`
	Server    ServerConfig    `yaml:"server"`
}

// SegmentConfig controls edge detection and region growing.
type SegmentConfig struct {
	Tolerance     int     `yaml:"tolerance"`
	EdgeThreshold float64 `yaml:"edge_threshold"`
	BlurSigma     float64 `yaml:"blur_sigma"`
}

// PatternConfig controls texture synthesis and its sample search.
type PatternConfig struct {
	Joint            int           `yaml:"joint"`
	UnitCap          int           `yaml:"unit_cap"`
	Repeat           int           `yaml:"repeat"`
	DefaultUnit      [2]float64    `yaml:"default_unit"`
	LinearUnit       [2]float64    `yaml:"linear_unit"`
	MinDarkness      float64       `yaml:"min_darkness"`
	BrightnessFactor float64       `yaml:"brightness_factor"`
	MaxSamples       int           `yaml:"max_samples"`
	MinSamples       int           `yaml:"min_samples"`
	Attempts         int           `yaml:"attempts"`
	RelaxedAttempts  int           `yaml:"relaxed_attempts"`
	RelaxFactor      float64       `yaml:"relax_factor"`
	WindowFraction   float64       `yaml:"window_fraction"`
	GroutDarken      float64       `yaml:"grout_darken"`
	GroutLighten     float64       `yaml:"grout_lighten"`
	CacheSize        int           `yaml:"cache_size"`
	Debounce         time.Duration `yaml:"debounce"`
}

// CompositeConfig holds relight pass opacities in [0,1].
type CompositeConfig struct {
	Multiply  float64 `yaml:"multiply"`
	SoftLight float64 `yaml:"soft_light"`
	Overlay   float64 `yaml:"overlay"`
	Grain     float64 `yaml:"grain"`
}

// ExportConfig controls shareable image output.
type ExportConfig struct {
	Watermark   string  `yaml:"watermark"`
	FontSize    float64 `yaml:"font_size"`
	JPEGQuality int     `yaml:"jpeg_quality"`
}

// ServerConfig controls the HTTP front end.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	DBPath       string        `yaml:"db_path"`
	ModelDelay   time.Duration `yaml:"model_delay"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads a YAML file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Segment.Tolerance <= 0 {
		c.Segment.Tolerance = swatch.DefaultTolerance
	}
	c.Segment.Tolerance = swatch.ClampTolerance(c.Segment.Tolerance)
	if c.Segment.EdgeThreshold <= 0 {
		c.Segment.EdgeThreshold = swatch.DefaultEdgeThreshold
	}
	if c.Segment.BlurSigma <= 0 {
		c.Segment.BlurSigma = swatch.DefaultBlurSigma
	}

	p := pattern.DefaultParams()
	if c.Pattern.Joint <= 0 {
		c.Pattern.Joint = p.Joint
	}
	if c.Pattern.UnitCap <= 0 {
		c.Pattern.UnitCap = p.UnitCap
	}
	if c.Pattern.Repeat <= 0 {
		c.Pattern.Repeat = p.Repeat
	}
	if c.Pattern.DefaultUnit[0] <= 0 || c.Pattern.DefaultUnit[1] <= 0 {
		c.Pattern.DefaultUnit = [2]float64{p.DefaultUnit.W, p.DefaultUnit.H}
	}
	if c.Pattern.LinearUnit[0] <= 0 || c.Pattern.LinearUnit[1] <= 0 {
		c.Pattern.LinearUnit = [2]float64{p.LinearUnit.W, p.LinearUnit.H}
	}
	if c.Pattern.MinDarkness <= 0 {
		c.Pattern.MinDarkness = p.MinDarkness
	}
	if c.Pattern.BrightnessFactor <= 0 {
		c.Pattern.BrightnessFactor = p.BrightnessFactor
	}
	if c.Pattern.MaxSamples <= 0 {
		c.Pattern.MaxSamples = p.MaxSamples
	}
	if c.Pattern.MinSamples <= 0 {
		c.Pattern.MinSamples = p.MinSamples
	}
	if c.Pattern.Attempts <= 0 {
		c.Pattern.Attempts = p.Attempts
	}
	if c.Pattern.RelaxedAttempts <= 0 {
		c.Pattern.RelaxedAttempts = p.RelaxedAttempts
	}
	if c.Pattern.RelaxFactor <= 0 {
		c.Pattern.RelaxFactor = p.RelaxFactor
	}
	if c.Pattern.WindowFraction <= 0 {
		c.Pattern.WindowFraction = p.WindowFraction
	}
	if c.Pattern.GroutDarken <= 0 {
		c.Pattern.GroutDarken = p.GroutDarken
	}
	if c.Pattern.GroutLighten <= 0 {
		c.Pattern.GroutLighten = p.GroutLighten
	}
	if c.Pattern.CacheSize <= 0 {
		c.Pattern.CacheSize = pattern.DefaultCacheSize
	}
	if c.Pattern.Debounce <= 0 {
		c.Pattern.Debounce = pattern.DefaultDebounce
	}

	cp := composite.DefaultParams()
	if c.Composite == (CompositeConfig{}) {
		c.Composite = CompositeConfig{
			Multiply:  cp.Multiply,
			SoftLight: cp.SoftLight,
			Overlay:   cp.Overlay,
			Grain:     cp.Grain,
		}
	}

	if c.Export.Watermark == "" {
		c.Export.Watermark = export.DefaultWatermark
	}
	if c.Export.FontSize <= 0 {
		c.Export.FontSize = export.DefaultFontSize
	}
	if c.Export.JPEGQuality <= 0 || c.Export.JPEGQuality > 100 {
		c.Export.JPEGQuality = export.DefaultJPEGQuality
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = "swatch.db"
	}
	if c.Server.ModelDelay < 0 {
		c.Server.ModelDelay = 0
	}
	if c.Server.FetchTimeout <= 0 {
		c.Server.FetchTimeout = 30 * time.Second
	}
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = 2 * time.Hour
	}
}

// PatternParams converts the pattern section into synthesizer calibration.
func (c *Config) PatternParams() pattern.Params {
	p := c.Pattern
	return pattern.Params{
		Joint:            p.Joint,
		UnitCap:          p.UnitCap,
		Repeat:           p.Repeat,
		DefaultUnit:      pattern.Size{W: p.DefaultUnit[0], H: p.DefaultUnit[1]},
		LinearUnit:       pattern.Size{W: p.LinearUnit[0], H: p.LinearUnit[1]},
		MinDarkness:      p.MinDarkness,
		BrightnessFactor: p.BrightnessFactor,
		MaxSamples:       p.MaxSamples,
		MinSamples:       p.MinSamples,
		Attempts:         p.Attempts,
		RelaxedAttempts:  p.RelaxedAttempts,
		RelaxFactor:      p.RelaxFactor,
		WindowFraction:   p.WindowFraction,
		GroutDarken:      p.GroutDarken,
		GroutLighten:     p.GroutLighten,
	}
}

// CompositeParams converts the composite section.
func (c *Config) CompositeParams() composite.Params {
	return composite.Params{
		Multiply:  c.Composite.Multiply,
		SoftLight: c.Composite.SoftLight,
		Overlay:   c.Composite.Overlay,
		Grain:     c.Composite.Grain,
	}
}

// SessionOptions returns the options for a new swatch.Session. Each call
// builds a fresh synthesizer.
func (c *Config) SessionOptions() []swatch.Option {
	return []swatch.Option{
		swatch.WithTolerance(c.Segment.Tolerance),
		swatch.WithEdgeThreshold(c.Segment.EdgeThreshold),
		swatch.WithSegmentBlur(c.Segment.BlurSigma),
		swatch.WithSynthesizer(pattern.NewSynthesizer(pattern.WithParams(c.PatternParams()))),
		swatch.WithCacheSize(c.Pattern.CacheSize),
		swatch.WithDebounce(c.Pattern.Debounce),
		swatch.WithCompositeParams(c.CompositeParams()),
		swatch.WithModelDelay(c.Server.ModelDelay),
	}
}
