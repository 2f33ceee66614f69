package ggfx

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the developer-facing log channel for ggfx and its
// sub-packages. By default nothing is logged. The logger is also handed to
// gg so rasterizer diagnostics end up in the same place.
//
// Log levels used by ggfx:
//   - [slog.LevelDebug]: skipped resizes, listener bookkeeping
//   - [slog.LevelInfo]: activation and teardown of instances
//   - [slog.LevelWarn]: initialization failures (zero-sized container, no surface)
//   - [slog.LevelError]: per-frame draw failures that stop a render loop
//
// Pass nil to restore the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gg.SetLogger(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
