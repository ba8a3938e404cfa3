package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/iw2rmb/csvi/grid"
)

// KeyMap holds the bindings handled outside the grid.
type KeyMap struct {
	Save   key.Binding
	Undo   key.Binding
	Redo   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Undo:   key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload from disk")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		// ctrl+c copies a cell, so quitting lives on ctrl+q.
		Quit: key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

// helpKeys merges app and grid bindings for the help line.
type helpKeys struct {
	app  KeyMap
	grid grid.KeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	out := []key.Binding{h.app.Help, h.app.Save}
	out = append(out, h.grid.ShortHelp()...)
	return append(out, h.app.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	out := [][]key.Binding{
		{h.app.Save, h.app.Undo, h.app.Redo, h.app.Reload, h.app.Help, h.app.Quit},
	}
	return append(out, h.grid.FullHelp()...)
}
