package bisect

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bisect-specific context.
// This provides structured logging with consistent field names.
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

// NewJSONLogger creates a Logger writing JSON records at or above level to w
// (os.Stderr if nil).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger writing key=value records at or above level
// to w (os.Stderr if nil).
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// LogSearch logs a single-value search.
func (l *Logger) LogSearch(ctx context.Context, repr string, length int, index uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"representation", repr,
			"error", err,
		)
	} else if l.Enabled(ctx, slog.LevelDebug) {
		l.DebugContext(ctx, "search completed",
			"representation", repr,
			"length", length,
			"index", index,
		)
	}
}

// LogBatch logs a batch search.
func (l *Logger) LogBatch(ctx context.Context, repr string, sources, targets int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch search failed",
			"representation", repr,
			"targets", targets,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch search completed",
			"representation", repr,
			"sources", sources,
			"targets", targets,
		)
	}
}
