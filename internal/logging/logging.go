// Package logging builds the file-backed logger used by csvi. The terminal
// belongs to the TUI, so nothing is ever written to stderr while it runs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

const defaultFile = "csvi.log"

type Options struct {
	// Path of the log file; DefaultPath when empty.
	Path string
	// Level name as accepted by log.ParseLevel. Debug overrides it.
	Level string
	Debug bool
}

// DefaultPath is $TMPDIR/csvi.log.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), defaultFile)
}

// Open creates the logger and returns a closer for its file.
func Open(opts Options) (*log.Logger, io.Closer, error) {
	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	level, err := resolveLevel(opts)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	return New(f, level), f, nil
}

// New returns a logger writing to w at level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Prefix:          "csvi",
	})
}

// Discard is the logger handed to components when nobody is listening.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func resolveLevel(opts Options) (log.Level, error) {
	if opts.Debug {
		return log.DebugLevel, nil
	}
	if opts.Level == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return 0, fmt.Errorf("log level %q: %w", opts.Level, err)
	}
	return level, nil
}
