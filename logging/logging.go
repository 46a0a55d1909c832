// Package logging builds the structured logger shared by every run.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level   string    // debug, info, warn, error
	File    string    // optional rotating log file
	Quiet   bool      // keep the console clear for the interactive UI
	Console io.Writer // defaults to os.Stderr
}

// New returns a logger tagged with a fresh run id, and a closer for the log
// file (a no-op when no file is configured).
//
// In quiet mode the console only receives warnings and errors; with a log
// file configured the console is left out entirely and the file receives
// everything at the configured level.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	var out io.Writer = console
	switch {
	case opts.File != "":
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		closer = file
		out = file
		if !opts.Quiet {
			out = io.MultiWriter(console, file)
		}
	case opts.Quiet && level < log.WarnLevel:
		level = log.WarnLevel
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "linkprobe",
	})
	return logger.With("run", uuid.NewString()), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
