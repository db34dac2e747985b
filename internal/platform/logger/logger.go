// Package logger provides structured logging for the game server.
// Every tick fault, death and eviction should be traceable through this.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides structured logging with context.
type Logger struct {
	base *slog.Logger
}

// Options selects the handler and minimum level.
type Options struct {
	Format string // "text" or "json"
	Level  string // "debug", "info", "warn", "error"
	Output io.Writer
}

// NewLogger creates a text logger writing info and above to stdout.
func NewLogger() *Logger {
	return New(Options{})
}

// New creates a logger from options.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return &Logger{base: slog.New(handler).With("component", "tickmud")}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return &Logger{base: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a logger carrying the given attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.base.With(args...)}
}

// Slog exposes the underlying slog logger.
func (l *Logger) Slog() *slog.Logger {
	return l.base
}

// Debug logs verbose diagnostics.
func (l *Logger) Debug(msg string, args ...any) {
	l.base.Debug(msg, args...)
}

// Info logs informational messages.
func (l *Logger) Info(msg string, args ...any) {
	l.base.Info(msg, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string, args ...any) {
	l.base.Warn(msg, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string, args ...any) {
	l.base.Error(msg, args...)
}

// Event logs a specific game event with the acting entity.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.base.Info(details, "event", eventType, "actor", actorID)
}
