package app

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
)

// SystemClipboard is the grid clipboard backed by the OS clipboard.
// Failures are logged and returned; the grid ignores them.
type SystemClipboard struct {
	Log *log.Logger
}

func (c SystemClipboard) ReadText() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil && c.Log != nil {
		c.Log.Warn("clipboard read failed", "err", err)
	}
	return s, err
}

func (c SystemClipboard) WriteText(s string) error {
	err := clipboard.WriteAll(s)
	if err != nil && c.Log != nil {
		c.Log.Warn("clipboard write failed", "err", err)
	}
	return err
}
