package swatch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/swatch/composite"
	"github.com/gogpu/swatch/pattern"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for swatch and its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Log levels used by swatch:
//   - [slog.LevelDebug]: per-stage diagnostics (region size, synthesis time, sample counts)
//   - [slog.LevelInfo]: lifecycle events (photo loaded, preferences restored)
//   - [slog.LevelWarn]: non-fatal degradations (sample search fallback, stale prefetch dropped)
//
// Example:
//
//	swatch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	pattern.SetLogger(l)
	composite.SetLogger(l)
}

// Logger returns the current logger. Packages that sit above swatch
// (catalog, store, the HTTP server) log through it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
