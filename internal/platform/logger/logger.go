// Package logger provides structured logging for the game server.
// Every simulation decision worth auditing goes through here.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger provides structured logging with context.
type Logger struct {
	entry *logrus.Entry
}

// Options configure a new Logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Output io.Writer
}

// NewLogger creates a new logger instance writing text to stdout at info level.
func NewLogger() *Logger {
	return New(Options{})
}

// New creates a logger from options, falling back to defaults for empty fields.
func New(opts Options) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	if opts.Output != nil {
		base.SetOutput(opts.Output)
	}
	if strings.EqualFold(opts.Format, "json") {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)
	return &Logger{entry: logrus.NewEntry(base)}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return New(Options{Output: io.Discard, Level: "panic"})
}

// WithFields returns a child logger carrying extra structured fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// Debug logs verbose diagnostics.
func (l *Logger) Debug(msg string) {
	l.entry.Debug(msg)
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.entry.Warn(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

// Event logs a specific game event.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.entry.WithFields(logrus.Fields{
		"event": eventType,
		"actor": actorID,
	}).Info(details)
}
