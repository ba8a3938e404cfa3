package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/iw2rmb/csvi/internal/config"
	"github.com/iw2rmb/csvi/internal/logging"
	"github.com/iw2rmb/csvi/internal/session"
)

type globalFlags struct {
	config    string
	eol       string
	debug     bool
	logFile   string
	sessionDB string
}

// env is what every subcommand needs before it starts.
type env struct {
	settings config.Settings
	log      *log.Logger
	closers  []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// applyFlags lets command line flags override loaded settings.
func applyFlags(s config.Settings, f globalFlags) (config.Settings, error) {
	if f.eol != "" {
		s.EOL = f.eol
	}
	if f.logFile != "" {
		s.LogFile = f.logFile
	}
	if f.sessionDB != "" {
		s.SessionDB = f.sessionDB
	}
	if f.debug {
		s.LogLevel = "debug"
	}
	s = config.Normalise(s)
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func setup(f globalFlags) (*env, error) {
	settings, path, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	settings, err = applyFlags(settings, f)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.Open(logging.Options{
		Path:  settings.LogFile,
		Level: settings.LogLevel,
		Debug: f.debug,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("settings loaded", "path", path)
	return &env{settings: settings, log: logger, closers: []io.Closer{closer}}, nil
}

// sessionPath resolves the session database location; "off" disables it.
func sessionPath(s config.Settings) string {
	switch s.SessionDB {
	case "off":
		return ""
	case "":
		return session.DefaultPath(config.Dir())
	default:
		return s.SessionDB
	}
}

// openSessions opens the session store. Failures only cost the restore, so
// they are logged and reported as a nil store.
func (e *env) openSessions() *session.Store {
	path := sessionPath(e.settings)
	if path == "" {
		return nil
	}
	store, err := session.Open(path)
	if err != nil {
		e.log.Warn("session store unavailable", "path", path, "err", err)
		return nil
	}
	e.closers = append(e.closers, store)
	return store
}

// runSync runs fn in the background and returns a wait func that reports
// its error, ignoring cancellation.
func runSync(ctx context.Context, fn func(context.Context) error) func() error {
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()
	return func() error {
		err := <-done
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

func checkFileArg(path string) error {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("directory of %s: %w", path, err)
	}
	return nil
}
