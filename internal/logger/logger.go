// Package logger wraps zerolog with the constructors used across qrforge.
//
// Logger embeds zerolog.Logger, so the usual Debug/Info/Warn/Error builders
// are available directly. Request-scoped loggers travel in a context.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New builds a JSON logger for role writing to stdout at the given level.
// Unknown levels fall back to info.
func New(role, level string) *Logger {
	return NewWithWriter(os.Stdout, role, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, role, level string) *Logger {
	l := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// ParseLevel maps debug/info/warn/error to zerolog levels.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// With returns a child logger carrying one extra string field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{l.Logger.With().Str(key, value).Logger()}
}

// FromContext returns the logger stored in ctx, or zerolog's default logger
// when there is none.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
