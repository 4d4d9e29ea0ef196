package pattern

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/swatch/raster"
)

func TestWindowSize(t *testing.T) {
	tests := []struct {
		w, h     int
		aspect   float64
		fraction float64
		ww, wh   int
	}{
		{40, 40, 2, 0.25, 10, 5},
		{2, 2, 3, 0.25, 1, 1},
		{100, 10, 1, 0.5, 10, 10},
	}
	for _, tt := range tests {
		ww, wh := windowSize(tt.w, tt.h, tt.aspect, tt.fraction)
		if ww != tt.ww || wh != tt.wh {
			t.Errorf("windowSize(%d,%d,%v,%v) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.aspect, tt.fraction, ww, wh, tt.ww, tt.wh)
		}
	}
}

func TestFindSamplesAvoidsGroutLines(t *testing.T) {
	img := raster.NewPixmap(40, 40)
	img.Fill(color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	for i := 0; i < 40; i++ {
		img.SetRGBA(20, i, color.NRGBA{A: 255})
		img.SetRGBA(i, 20, color.NRGBA{A: 255})
	}

	set := findSamples(img, 2, DefaultParams(), rand.New(rand.NewPCG(1, 2)))
	if set.fallback || len(set.windows) == 0 {
		t.Fatalf("found %d windows (fallback %v), want some", len(set.windows), set.fallback)
	}
	if len(set.windows) > DefaultParams().MaxSamples {
		t.Errorf("found %d windows, want at most %d", len(set.windows), DefaultParams().MaxSamples)
	}
	for _, r := range set.windows {
		if r.Min.X <= 20 && 20 < r.Max.X || r.Min.Y <= 20 && 20 < r.Max.Y {
			t.Errorf("window %v crosses a grout line", r)
		}
	}
}

func TestFindSamplesRelaxes(t *testing.T) {
	img := raster.NewPixmap(40, 40)
	img.Fill(color.NRGBA{R: 15, G: 15, B: 15, A: 255})
	set := findSamples(img, 2, DefaultParams(), rand.New(rand.NewPCG(3, 4)))
	if !set.relaxed || set.fallback {
		t.Errorf("relaxed = %v fallback = %v, want true false", set.relaxed, set.fallback)
	}
	if len(set.windows) == 0 {
		t.Error("relaxed search found no windows")
	}
}

func TestFindSamplesFallsBackToCentre(t *testing.T) {
	img := raster.NewPixmap(40, 40)
	img.Fill(color.NRGBA{A: 255})
	set := findSamples(img, 2, DefaultParams(), rand.New(rand.NewPCG(5, 6)))
	if !set.fallback || len(set.windows) != 1 {
		t.Fatalf("fallback = %v windows = %d, want true 1", set.fallback, len(set.windows))
	}
	if want := image.Rect(15, 17, 25, 22); set.windows[0] != want {
		t.Errorf("centre window = %v, want %v", set.windows[0], want)
	}
}
