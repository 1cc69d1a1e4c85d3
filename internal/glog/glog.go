// Package glog configures the process-wide zerolog logger used for
// diagnostic (non-history) logging: background-process spawn, spawn
// failure and exit events. It is independent of planstore's
// append-only history log, which is the durability record, not a debug
// trail.
package glog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Setup installs a console-friendly zerolog logger as the global logger
// and returns it. verbose lowers the level to debug; otherwise info.
func Setup(out io.Writer, verbose bool) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
	return logger
}
