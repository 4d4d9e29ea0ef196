package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/swatch/pattern"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Segment.Tolerance != 30 || c.Segment.EdgeThreshold != 30 {
		t.Errorf("segment = %+v", c.Segment)
	}
	if c.Pattern.Attempts != 3000 || c.Pattern.RelaxedAttempts != 1000 || c.Pattern.Debounce != 100*time.Millisecond {
		t.Errorf("pattern = %+v", c.Pattern)
	}
	if c.Composite.Multiply != 0.75 || c.Composite.Grain != 0.08 {
		t.Errorf("composite = %+v", c.Composite)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("server addr = %q", c.Server.Addr)
	}
	if got := c.PatternParams(); got != pattern.DefaultParams() {
		t.Errorf("PatternParams = %+v, want defaults", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.yaml")
	yml := `
segment:
  tolerance: 250
pattern:
  joint: 10
  default_unit: [230, 76]
  min_darkness: 35
  debounce: 250ms
composite:
  multiply: 0.5
server:
  addr: "127.0.0.1:9000"
  model_delay: 2s
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Segment.Tolerance != 100 {
		t.Errorf("tolerance = %d, want clamped to 100", c.Segment.Tolerance)
	}
	p := c.PatternParams()
	if p.Joint != 10 || p.DefaultUnit != (pattern.Size{W: 230, H: 76}) || p.MinDarkness != 35 {
		t.Errorf("pattern params = %+v", p)
	}
	if p.Attempts != 3000 {
		t.Errorf("unset attempts = %d, want default 3000", p.Attempts)
	}
	if c.Pattern.Debounce != 250*time.Millisecond || c.Server.ModelDelay != 2*time.Second {
		t.Errorf("durations: debounce %v model delay %v", c.Pattern.Debounce, c.Server.ModelDelay)
	}
	if c.Composite.Multiply != 0.5 || c.Composite.SoftLight != 0 {
		t.Errorf("composite = %+v, want only multiply set", c.Composite)
	}
	if len(c.SessionOptions()) == 0 {
		t.Error("SessionOptions is empty")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("segment: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(bad yaml) should fail")
	}
}
