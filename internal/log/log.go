// Package log configures structured logging for dupscan using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the verbosity flags to a slog level.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Quiet wins when both are set.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup installs a text handler on stderr as the default logger.
func Setup(verbose, quiet bool) {
	SetupWriter(os.Stderr, verbose, quiet, false)
}

// SetupWriter installs a handler on w as the default logger. JSON selects
// slog.JSONHandler for machine consumption.
func SetupWriter(w io.Writer, verbose, quiet, json bool) {
	opts := &slog.HandlerOptions{Level: Level(verbose, quiet)}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// WithRun tags every subsequent default-logger record with the run ID.
func WithRun(id string) *slog.Logger {
	l := slog.Default().With("run", id)
	slog.SetDefault(l)
	return l
}
