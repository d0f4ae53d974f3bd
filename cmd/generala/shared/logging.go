package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a logger on stderr with console or JSON output.
func SetupLogger(level log.Level, json bool) *log.Logger {
	return NewLogger(os.Stderr, level, json)
}

// NewLogger configures a logger writing to w.
func NewLogger(w io.Writer, level log.Level, json bool) *log.Logger {
	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}
	if json {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts)
}
