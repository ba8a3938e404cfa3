package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// EnvDir overrides the settings directory.
const EnvDir = "CSVI_CONFIG_DIR"

const settingsFile = "settings.toml"

// Line ending names accepted in settings and on the command line.
const (
	EOLAuto = "auto"
	EOLLF   = "lf"
	EOLCRLF = "crlf"
)

type Settings struct {
	EOL          string `toml:"eol"`
	HistoryLimit int    `toml:"history_limit"`
	LogLevel     string `toml:"log_level"`
	LogFile      string `toml:"log_file"`
	SessionDB    string `toml:"session_db"`

	Grid  GridSettings  `toml:"grid"`
	Watch WatchSettings `toml:"watch"`
	Serve ServeSettings `toml:"serve"`
}

type GridSettings struct {
	MinColumnWidth int `toml:"min_column_width"`
	MaxColumnWidth int `toml:"max_column_width"`
	DoubleClickMS  int `toml:"double_click_ms"`
}

type WatchSettings struct {
	Enabled    bool `toml:"enabled"`
	IntervalMS int  `toml:"interval_ms"`
}

type ServeSettings struct {
	Addr string `toml:"addr"`
}

func Default() Settings {
	return Settings{
		EOL:          EOLAuto,
		HistoryLimit: 1000,
		LogLevel:     "info",
		Grid: GridSettings{
			MinColumnWidth: 3,
			MaxColumnWidth: 24,
			DoubleClickMS:  400,
		},
		Watch: WatchSettings{
			Enabled:    true,
			IntervalMS: 1000,
		},
		Serve: ServeSettings{
			Addr: "127.0.0.1:7431",
		},
	}
}

// Dir returns the settings directory: $CSVI_CONFIG_DIR, else csvi under the
// user config directory ($XDG_CONFIG_HOME on Linux).
func Dir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".csvi")
	}
	return filepath.Join(base, "csvi")
}

// DefaultPath is the settings file used when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), settingsFile)
}

// Load reads settings from path, or DefaultPath when path is empty. A
// missing file yields defaults; unknown keys and bad values fail.
func Load(path string) (Settings, string, error) {
	if path == "" {
		path = DefaultPath()
	}

	settings := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, path, nil
	}
	if err != nil {
		return Settings{}, path, fmt.Errorf("read settings %q: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Settings{}, path, fmt.Errorf("parse settings %q: %s", path, strict.String())
		}
		return Settings{}, path, fmt.Errorf("parse settings %q: %w", path, err)
	}

	settings = Normalise(settings)
	if err := settings.Validate(); err != nil {
		return Settings{}, path, fmt.Errorf("settings %q: %w", path, err)
	}
	return settings, path, nil
}

// Normalise fills zero values with defaults and canonicalises names.
func Normalise(s Settings) Settings {
	def := Default()
	s.EOL = strings.ToLower(strings.TrimSpace(s.EOL))
	if s.EOL == "" {
		s.EOL = def.EOL
	}
	if s.HistoryLimit == 0 {
		s.HistoryLimit = def.HistoryLimit
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	if s.Grid.MinColumnWidth <= 0 {
		s.Grid.MinColumnWidth = def.Grid.MinColumnWidth
	}
	if s.Grid.MaxColumnWidth <= 0 {
		s.Grid.MaxColumnWidth = def.Grid.MaxColumnWidth
	}
	if s.Grid.DoubleClickMS <= 0 {
		s.Grid.DoubleClickMS = def.Grid.DoubleClickMS
	}
	if s.Watch.IntervalMS <= 0 {
		s.Watch.IntervalMS = def.Watch.IntervalMS
	}
	if s.Serve.Addr == "" {
		s.Serve.Addr = def.Serve.Addr
	}
	return s
}

var (
	ErrInvalidEOL      = errors.New("invalid eol")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidGrid     = errors.New("invalid grid settings")
)

func (s Settings) Validate() error {
	var errs []error
	switch s.EOL {
	case EOLAuto, EOLLF, EOLCRLF:
	default:
		errs = append(errs, fmt.Errorf("eol %q (want auto, lf or crlf): %w", s.EOL, ErrInvalidEOL))
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: %w", s.LogLevel, ErrInvalidLogLevel))
	}
	if s.Grid.MaxColumnWidth < s.Grid.MinColumnWidth {
		errs = append(errs, fmt.Errorf(
			"max_column_width %d < min_column_width %d: %w",
			s.Grid.MaxColumnWidth, s.Grid.MinColumnWidth, ErrInvalidGrid,
		))
	}
	return errors.Join(errs...)
}

func (g GridSettings) DoubleClick() time.Duration {
	return time.Duration(g.DoubleClickMS) * time.Millisecond
}

func (w WatchSettings) Interval() time.Duration {
	return time.Duration(w.IntervalMS) * time.Millisecond
}

// Save writes settings to path (DefaultPath when empty) atomically.
func Save(settings Settings, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	settings = Normalise(settings)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure settings directory: %w", err)
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %q: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes to a temp file next to path and renames it over
// path, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".csvi-*.tmp")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		closeErr := tmp.Close()
		if closeErr != nil {
			return errors.Join(err, closeErr)
		}
		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		closeErr := tmp.Close()
		if closeErr != nil {
			return errors.Join(err, closeErr)
		}
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
