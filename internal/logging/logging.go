package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New returns the logger shared by a run. debug lowers the level to debug.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		// caller info is only useful while debugging the tool itself
		ReportCaller: debug,
	})
}
