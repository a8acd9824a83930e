// Package logging builds the process logger.
package logging

import (
	"io"

	"github.com/go-kratos/kratos/v2/log"
)

// TimeLayout is the timestamp format written with every record
const TimeLayout = "15:04:05"

// Level returns the minimum level for the verbosity flags. Quiet wins over verbose.
func Level(verbose, quiet bool) log.Level {
	switch {
	case quiet:
		return log.LevelError
	case verbose:
		return log.LevelDebug
	default:
		return log.LevelInfo
	}
}

// New returns a logger writing to w, filtered by the verbosity flags
func New(w io.Writer, verbose, quiet bool) log.Logger {
	logger := log.With(log.NewStdLogger(w), "ts", log.Timestamp(TimeLayout))
	return log.NewFilter(logger, log.FilterLevel(Level(verbose, quiet)))
}
