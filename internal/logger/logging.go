// Package logger configures charmbracelet/log for cmdserve.
// Every logger writes to stderr; stdout carries the msgpack stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Setup points the package level logger at stderr and picks the level
// from the debug flag.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// New creates a component logger that follows the global level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter creates a component logger writing to w.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
