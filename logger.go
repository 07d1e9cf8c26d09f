package fastvec

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fastvec-specific events.
// This provides structured logging with consistent field names.
//
// All methods are safe to call on a nil *Logger, which discards everything.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// LogRealloc logs a buffer reallocation.
func (l *Logger) LogRealloc(oldCap, newCap, length int, storage string) {
	if l == nil {
		return
	}
	l.Debug("vector reallocated",
		"old_capacity", oldCap,
		"new_capacity", newCap,
		"length", length,
		"storage", storage,
	)
}

// LogRelease logs the release of a buffer.
func (l *Logger) LogRelease(capacity, length int, storage string) {
	if l == nil {
		return
	}
	l.Debug("vector released",
		"capacity", capacity,
		"length", length,
		"storage", storage,
	)
}

// LogStorageFallback logs that off-heap storage was requested but heap storage is used.
func (l *Logger) LogStorageFallback(reason string) {
	if l == nil {
		return
	}
	l.Warn("off-heap storage unavailable, using heap",
		"reason", reason,
	)
}

// LogEncode logs a snapshot write.
func (l *Logger) LogEncode(ctx context.Context, length int, written int64, compression string, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "snapshot encode failed",
			"length", length,
			"compression", compression,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot encoded",
		"length", length,
		"bytes", written,
		"compression", compression,
	)
}

// LogDecode logs a snapshot read.
func (l *Logger) LogDecode(ctx context.Context, length int, read int64, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "snapshot decode failed",
			"bytes", read,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot decoded",
		"length", length,
		"bytes", read,
	)
}
