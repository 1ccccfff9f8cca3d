// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog and zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "backup exported", "records", total, "bytes", size)
type Logger interface {
	// Debug logs verbose diagnostics such as per-kind row counts.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the named backend writing JSON lines to w.
func New(backend string, w io.Writer, debug bool) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
		return NewZapLogger(zap.New(core)), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}
