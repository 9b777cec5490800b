// Package teamlog builds the single zerolog.Logger instance threaded
// through every component of a solve, carried as an explicit field rather
// than reached for as a global logger.
package teamlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a logger writing to w (os.Stderr if nil) at the given level,
// parsed by zerolog.ParseLevel (e.g. "debug", "info", "warn", "error"); a
// name zerolog does not recognize falls back to "info".
func New(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
