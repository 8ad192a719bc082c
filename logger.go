package hugego

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hugego-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSize adds a size (element count) field to the logger.
func (l *Logger) WithSize(size int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("size", size),
	}
}

// WithPageSize adds a page_size field to the logger.
func (l *Logger) WithPageSize(pageSize int) *Logger {
	return &Logger{
		Logger: l.Logger.With("page_size", pageSize),
	}
}

// WithPages adds a pages (page count) field to the logger.
func (l *Logger) WithPages(pages int) *Logger {
	return &Logger{
		Logger: l.Logger.With("pages", pages),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogCreate logs an array construction.
func (l *Logger) LogCreate(size int64, pageSize int, err error) {
	if err != nil {
		l.Error("array creation failed",
			"size", size,
			"page_size", pageSize,
			"error", err,
		)
	} else {
		l.Debug("array created",
			"size", size,
			"page_size", pageSize,
		)
	}
}

// LogGrow logs a growth operation.
func (l *Logger) LogGrow(oldSize, newSize int64, pages int, err error) {
	if err != nil {
		l.Error("grow failed",
			"old_size", oldSize,
			"new_size", newSize,
			"error", err,
		)
	} else {
		l.Debug("grow completed",
			"old_size", oldSize,
			"new_size", newSize,
			"pages_allocated", pages,
		)
	}
}

// LogFill logs a bulk fill operation.
func (l *Logger) LogFill(ctx context.Context, elements int64, workers int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fill failed",
			"elements", elements,
			"workers", workers,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "fill completed",
			"elements", elements,
			"workers", workers,
		)
	}
}

// LogRelease logs a release operation.
func (l *Logger) LogRelease(freedBytes int64) {
	l.Info("array released",
		"freed_bytes", freedBytes,
	)
}
