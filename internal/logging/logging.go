// Package logging configures the zerolog logger shared by rundiff's
// loaders and archive. The comparison core never logs.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	Verbose bool // debug level instead of info
	NoColor bool
}

// New returns a console logger writing to w.
func New(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
