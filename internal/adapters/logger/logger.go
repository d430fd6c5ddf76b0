// Package logger implements the ambient logging adapter using log/slog.
package logger

import (
	"log/slog"
	"os"

	"go.rsplug.dev/rsplug/internal/core/ports"
)

// Logger implements ports.Logger with a slog text handler writing to
// stderr, matching 12-factor app conventions.
type Logger struct {
	logger *slog.Logger
}

// New creates a new Logger instance.
func New() ports.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{logger: slog.New(handler)}
}

// Info logs an informational message with optional key/value pairs.
func (l *Logger) Info(msg string, kv ...any) {
	l.logger.Info(msg, kv...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, kv ...any) {
	l.logger.Warn(msg, kv...)
}

// Error logs an error.
func (l *Logger) Error(err error) {
	l.logger.Error("operation failed", "error", err)
}
