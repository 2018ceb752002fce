// Package logging configures the process-wide slog logger used by the
// yidmfa commands and hands out loggers tagged with the current run ID.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey string

// RunIDKey is the context key (and log attribute) carrying the run ID.
const RunIDKey contextKey = "run_id"

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatText outputs human-readable key=value lines.
	FormatText Format = iota
	// FormatJSON outputs one JSON object per line.
	FormatJSON
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat maps "text" and "json" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init replaces the global logger. Output goes to w (stderr when nil) so
// that stdout stays free for command output such as g2p results.
func Init(level Level, format Format, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level.slogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

// Logger returns the global logger.
func Logger() *slog.Logger {
	return defaultLogger
}

// Discard returns a logger that drops everything. Library packages fall
// back to it when the caller passes a nil logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// WithRunID stores the run ID in ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// RunID returns the run ID stored in ctx, if any.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the global logger with the run ID attached.
func FromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if id := RunID(ctx); id != "" {
		logger = logger.With(string(RunIDKey), id)
	}
	return logger
}

// Debug logs at debug level on the global logger.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs at info level on the global logger.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs at warn level on the global logger.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs at error level on the global logger.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
