package util

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger returns a timestamped logger writing to w. Unknown levels fall
// back to info.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
