package swatch

import (
	"context"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/swatch/pattern"
	"github.com/gogpu/swatch/raster"
)

// redSwatch is a 2x2 red swatch with one slightly different pixel, so it
// has no internal edges.
func redSwatch() pattern.Material {
	pm := raster.NewPixmap(2, 2)
	pm.Fill(red)
	pm.SetRGBA(1, 1, color.NRGBA{R: 250, A: 255})
	return pattern.Material{ID: "red", Image: pm}
}

func scenarioSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(
		WithModelDelay(0),
		WithTolerance(50),
		WithSynthesizer(pattern.NewSynthesizer(pattern.WithSource(rand.NewPCG(42, 7)))),
	)
	t.Cleanup(s.Close)
	s.SetPattern(pattern.Config{Bond: pattern.BondStack, Grout: color.NRGBA{A: 255}})
	s.SetMaterial(redSwatch())
	return s
}

func TestScenarioSolidPhoto(t *testing.T) {
	s := scenarioSession(t)
	photo := solidPhoto(4, 4, red)
	if err := s.LoadPhoto("solid", photo); err != nil {
		t.Fatal(err)
	}

	mask, err := s.Click(context.Background(), image.Pt(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if mask.At(1, 1) == 0 {
		t.Error("selection does not contain the clicked pixel")
	}
	if n := mask.Components(); n != 1 {
		t.Errorf("selection has %d regions, want 1", n)
	}

	frame, err := s.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// The whole solid photo is one region, so every pixel is replaced.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if frame.RGBAAt(x, y) == photo.RGBAAt(x, y) {
				t.Errorf("pixel (%d,%d) unchanged", x, y)
			}
		}
	}
}

func TestScenarioRegionStaysInside(t *testing.T) {
	s := scenarioSession(t)
	photo := splitPhoto(8, 8, 4, red, blue)
	if err := s.LoadPhoto("split", photo); err != nil {
		t.Fatal(err)
	}

	mask, err := s.Click(context.Background(), image.Pt(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if mask.At(1, 1) == 0 || mask.Components() != 1 {
		t.Fatalf("selection: At(1,1) = %d, components = %d", mask.At(1, 1), mask.Components())
	}

	frame, err := s.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	changed := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if frame.RGBAAt(x, y) == photo.RGBAAt(x, y) {
				continue
			}
			changed++
			if mask.At(x, y) == 0 {
				t.Errorf("pixel (%d,%d) changed outside the selection", x, y)
			}
			// Edge columns are 3 and 4. Away from the unedged border rows
			// the blur reaches only the edge column on the blue side.
			if x >= 6 || (x >= 5 && y >= 2 && y <= 5) {
				t.Errorf("pixel (%d,%d) on the blue side changed", x, y)
			}
		}
	}
	if changed == 0 {
		t.Error("no pixel changed")
	}
}

func TestScenarioReplaceIdempotent(t *testing.T) {
	s := scenarioSession(t)
	if err := s.LoadPhoto("", splitPhoto(8, 8, 4, red, blue)); err != nil {
		t.Fatal(err)
	}
	a, err := s.Click(context.Background(), image.Pt(6, 6))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Click(context.Background(), image.Pt(6, 6))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("replacing with the same region twice gave different masks")
	}
}
