// Package logging configures the process-wide zerolog logger.
//
// MCP stdio servers own stdout for the protocol stream, so logs default
// to stderr; the SSE transport may opt into stdout.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum level name: trace, debug, info, warn, error.
	// Unknown names fall back to info.
	Level string
	// Stdout routes logs to stdout instead of stderr. Never set this for
	// the stdio transport.
	Stdout bool
	// Pretty enables the human-readable console writer.
	Pretty bool
}

// New builds a logger from options.
func New(opts Options) zerolog.Logger {
	var out io.Writer = os.Stderr
	if opts.Stdout {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
