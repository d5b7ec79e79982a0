// Package obslog provides the structured logger used across the CLI
// and core packages. It keeps the field-chaining API shape of the
// hand-rolled logger this project's ancestor shipped, but backs it
// with zerolog instead of a bespoke io.Writer formatter.
package obslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's severity levels under names that match the
// rest of this codebase's vocabulary.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger wraps a zerolog.Logger, offering the WithField/WithFields
// chaining this codebase's call sites expect.
type Logger struct {
	z zerolog.Logger
}

// New builds a console-friendly logger writing to output at the given
// minimum level.
func New(level Level, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}
	cw := zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	z := zerolog.New(cw).Level(level.zerolog()).With().Timestamp().Logger()
	return &Logger{z: z}
}

// Default returns a logger at InfoLevel writing to stderr.
func Default() *Logger {
	return New(InfoLevel, os.Stderr)
}

// WithField returns a derived logger carrying one additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{z: l.z.With().Interface(key, value).Logger()}
}

// WithFields returns a derived logger carrying several additional
// fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.z.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{z: ctx.Logger()}
}

// SetLevel changes the minimum severity logged, in place.
func (l *Logger) SetLevel(level Level) {
	l.z = l.z.Level(level.zerolog())
}

func (l *Logger) Debug(msg string) { l.z.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.z.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.z.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.z.Error().Msg(msg) }
func (l *Logger) Fatal(msg string) { l.z.Fatal().Msg(msg) }

// LogOperation runs fn, logging its outcome and wall-clock duration at
// Info (success) or Error (failure).
func (l *Logger) LogOperation(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	entry := l.WithFields(map[string]interface{}{"operation": name, "duration_ms": elapsed.Milliseconds()})
	if err != nil {
		entry.WithField("error", err.Error()).Error("operation failed")
		return err
	}
	entry.Info("operation completed")
	return nil
}

var global = Default()

// GetGlobalLogger returns the process-wide default logger.
func GetGlobalLogger() *Logger { return global }

// SetGlobalLogger replaces the process-wide default logger.
func SetGlobalLogger(l *Logger) { global = l }
