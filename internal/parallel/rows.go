// Package parallel splits per-row image work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

const (
	// minPixels is the smallest job worth fanning out.
	minPixels = 1 << 16

	// minBand is the fewest rows handed to one goroutine.
	minBand = 16
)

// Band is a half-open row range [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Bands splits rows [lo, hi) of a width-pixel image into contiguous bands,
// at most one per worker. Small jobs get a single band.
func Bands(lo, hi, width, workers int) []Band {
	n := hi - lo
	if n <= 0 {
		return nil
	}
	if workers <= 1 || n*width < minPixels || n < 2*minBand {
		return []Band{{lo, hi}}
	}
	count := min(workers, n/minBand)
	step := (n + count - 1) / count
	bands := make([]Band, 0, count)
	for y := lo; y < hi; y += step {
		bands = append(bands, Band{y, min(y+step, hi)})
	}
	return bands
}

// Rows calls fn once per band of [lo, hi) and waits for all calls.
// fn must only write rows inside its band. A single band runs on the
// calling goroutine.
func Rows(lo, hi, width int, fn func(y0, y1 int)) {
	bands := Bands(lo, hi, width, runtime.GOMAXPROCS(0))
	switch len(bands) {
	case 0:
		return
	case 1:
		fn(bands[0].Y0, bands[0].Y1)
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(bands))
	for _, b := range bands {
		go func() {
			defer wg.Done()
			fn(b.Y0, b.Y1)
		}()
	}
	wg.Wait()
}
