// Package logging provides the levelled, structured logger used across newsdesk.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Fields carries structured key/value pairs attached to a log line
type Fields map[string]interface{}

// Options configures a Logger
type Options struct {
	Level  Level
	Format string // "console" or "json"
	Output io.Writer
}

// Logger wraps a zerolog logger behind a small, stable API
type Logger struct {
	zl    zerolog.Logger
	level Level
}

// New creates a console logger writing to stderr
func New(level Level) *Logger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions creates a logger with explicit output and format
func NewWithOptions(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if opts.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stderr}
	}

	zl := zerolog.New(w).Level(toZerolog(opts.Level)).With().Timestamp().Logger()
	return &Logger{zl: zl, level: opts.Level}
}

// ParseLevel maps a config string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// WithField returns a single-entry Fields value
func WithField(key string, value interface{}) Fields {
	return Fields{key: value}
}

// WithFields converts a plain map into Fields
func WithFields(fields map[string]interface{}) Fields {
	return Fields(fields)
}

// Level returns the configured minimum level
func (l *Logger) Level() Level {
	return l.level
}

// With returns a child logger that always carries the given fields
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger(), level: l.level}
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Fields) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []Fields) {
	if event == nil {
		return
	}
	for _, f := range fields {
		event = event.Fields(map[string]interface{}(f))
	}
	event.Msg(msg)
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
