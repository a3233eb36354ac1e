package cli

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a console logger on w at level, falling back to info
// for unknown levels.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Str("app", "eventist").Logger()
}
