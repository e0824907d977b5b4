// Package logger provides charmbracelet/log constructors shared by the binary, CLI and server.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed logger on stderr that respects the global log level.
// stdout is reserved for IPC frames in server mode.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix, log.GetLevel())
}

// NewWithWriter creates a prefixed text logger on w.
func NewWithWriter(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: level == log.DebugLevel,
		Formatter:       log.TextFormatter,
	})
}
