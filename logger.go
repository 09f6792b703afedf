package spvreflect

import (
	"log/slog"

	"github.com/gogpu/spvreflect/internal/logger"
)

// SetLogger configures the logger for spvreflect and all its sub-packages.
// By default, spvreflect produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by spvreflect:
//   - [slog.LevelDebug]: per-module summaries, variables skipped by reflection
//   - [slog.LevelWarn]: non-fatal issues (conflicting descriptor kinds,
//     ignored extra entry points)
//
// Example:
//
//	spvreflect.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger used by spvreflect.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Get()
}
