// Package logger configures structured logging for the CLI.
package logger

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Interface defines the logging methods used across the converter.
type Interface interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Logger wraps an slog.Logger writing tinted output to stderr.
type Logger struct {
	logger *slog.Logger
}

// New creates a logger at info level.
func New() *Logger {
	return NewWithLevel(slog.LevelInfo)
}

// NewWithLevel creates a logger with the given level.
func NewWithLevel(level slog.Level) *Logger {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
	})
	return &Logger{
		logger: slog.New(handler),
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// GetSlogLogger returns the underlying slog logger.
func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

// Error creates a structured error field.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
