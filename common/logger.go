package common

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger shared by every engine package.
// By default nothing is logged. Passing nil restores the silent logger.
//
// Log levels used by the engine:
//   - [slog.LevelDebug]: per-frame diagnostics (light counts, pass selection)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, loop started)
//   - [slog.LevelWarn]: recovered or ignored problems
//   - [slog.LevelError]: broken structural invariants, right before Fatal panics
//
// Parameters:
//   - l: the logger to install
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the active logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Fatal logs msg at error level and panics. It is reserved for broken structural
// invariants that leave the engine in an unrecoverable state.
//
// Parameters:
//   - msg: the message to log and panic with
//   - args: optional slog key/value pairs
func Fatal(msg string, args ...any) {
	Logger().Error(msg, args...)
	panic(fmt.Sprintf("fatal: %s", msg))
}
