package grid

import (
	"time"

	"github.com/iw2rmb/csvi/protocol"
)

// Config configures the grid Model.
type Config struct {
	Style  Style
	KeyMap KeyMap

	// Emit receives every intent produced by user actions, in order.
	// Nil drops them.
	Emit func(protocol.Intent)

	// Clipboard backs copy and paste. Nil disables both.
	Clipboard Clipboard

	// Column content width bounds in terminal cells. Defaults: 3 and 24.
	MinColumnWidth int
	MaxColumnWidth int

	// Two left presses on one cell within DoubleClick open the editor.
	// Default: 400ms.
	DoubleClick time.Duration

	// Now is the clock used for double click detection. Default: time.Now.
	Now func() time.Time
}

const (
	defaultMinColumnWidth = 3
	defaultMaxColumnWidth = 24
	defaultDoubleClick    = 400 * time.Millisecond
)

func normalizeConfig(cfg Config) Config {
	if cfg.MinColumnWidth <= 0 {
		cfg.MinColumnWidth = defaultMinColumnWidth
	}
	if cfg.MaxColumnWidth <= 0 {
		cfg.MaxColumnWidth = defaultMaxColumnWidth
	}
	if cfg.MaxColumnWidth < cfg.MinColumnWidth {
		cfg.MaxColumnWidth = cfg.MinColumnWidth
	}
	if cfg.DoubleClick <= 0 {
		cfg.DoubleClick = defaultDoubleClick
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.KeyMap.isZero() {
		cfg.KeyMap = DefaultKeyMap()
	}
	return cfg
}
