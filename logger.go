package strkernel

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with strkernel-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler at info level writing to stderr is used.
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

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithMetric tags the logger with a metric name.
func (l *Logger) WithMetric(metric string) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", metric),
	}
}

// WithCorpus tags the logger with a corpus name.
func (l *Logger) WithCorpus(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("corpus", name),
	}
}

// LogLoad logs a corpus load.
func (l *Logger) LogLoad(ctx context.Context, name string, instances int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "corpus open failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "corpus opened",
		"name", name,
		"instances", instances,
	)
}

// LogBind logs an engine bind.
func (l *Logger) LogBind(ctx context.Context, field, instances int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "bind failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "bind completed",
		"field", field,
		"instances", instances,
	)
}

// LogEvaluateError logs a failed evaluation.
func (l *Logger) LogEvaluateError(ctx context.Context, id1, id2 int, err error) {
	l.ErrorContext(ctx, "evaluation failed",
		"id1", id1,
		"id2", id2,
		"error", err,
	)
}

// LogReset logs a cache reset.
func (l *Logger) LogReset(ctx context.Context, evaluations int64) {
	l.DebugContext(ctx, "kernel reset",
		"evaluations", evaluations,
	)
}

// LogGram logs a Gram matrix computation.
func (l *Logger) LogGram(ctx context.Context, rows int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "gram computation failed",
			"rows", rows,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "gram computed",
		"rows", rows,
		"elapsed", elapsed,
	)
}
