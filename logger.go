package prim2d

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards every record. Enabled reports
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for prim2d and its sub-packages.
// By default nothing is logged. Passing nil restores the silent default.
//
// SetLogger is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: pipeline creation, buffer growth, shader preprocessing
//   - [slog.LevelInfo]: lifecycle events (renderer created, frame rendered)
//   - [slog.LevelWarn]: non-fatal issues (skipped instances, release errors)
//
// Example:
//
//	prim2d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (gpu, raster, shaders)
// call it to share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
