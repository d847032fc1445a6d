// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// New returns a JSON logger on stdout for the named service.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName, level string) zerolog.Logger {
	return NewWriter(os.Stdout, serviceName, level)
}

// NewConsole returns a human-readable logger on stderr, used by the CLI so
// that stdout stays free for results.
func NewConsole(serviceName, level string) zerolog.Logger {
	return NewWriter(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: os.Getenv("NO_COLOR") != ""}, serviceName, level)
}

// NewWriter returns a logger writing to w at the given level. Unknown or
// empty levels fall back to info.
func NewWriter(w io.Writer, serviceName, level string) zerolog.Logger {
	configureStacks()
	return zerolog.New(w).Level(ParseLevel(level)).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// ParseLevel maps a level name onto a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// configureStacks makes zerolog render github.com/pkg/errors stack traces,
// attaching one to plain errors when .Stack() is used.
func configureStacks() {
	type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}
