package grid

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the grid key bindings. It implements help.KeyMap.
//
// Arrow bindings list plain keys only: arrows held with alt, shift or ctrl
// do not move focus.
type KeyMap struct {
	Up, Down, Left, Right key.Binding
	PageUp, PageDown      key.Binding
	Home, End             key.Binding

	Rename key.Binding
	Save   key.Binding
	Cancel key.Binding

	AddColumnBefore, AddColumnAfter key.Binding
	DeleteColumn                    key.Binding
	AddRowBefore, AddRowAfter       key.Binding
	DeleteRow                       key.Binding

	Copy, Paste key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first column")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last column")),

		Rename: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "edit cell")),
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		// alt+arrows are what most terminals report for option/meta arrows.
		AddColumnBefore: key.NewBinding(key.WithKeys("alt+left"), key.WithHelp("alt+←", "add column before")),
		AddColumnAfter:  key.NewBinding(key.WithKeys("alt+right"), key.WithHelp("alt+→", "add column after")),
		DeleteColumn:    key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "delete column")),
		AddRowBefore:    key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+↑", "add row before")),
		AddRowAfter:     key.NewBinding(key.WithKeys("alt+down"), key.WithHelp("alt+↓", "add row after")),
		DeleteRow:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete row")),

		Copy:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy")),
		Paste: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
	}
}

func (km KeyMap) isZero() bool {
	return len(km.Up.Keys()) == 0 && len(km.Save.Keys()) == 0 && len(km.Cancel.Keys()) == 0
}

func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Rename, km.AddRowAfter, km.AddColumnAfter, km.DeleteRow, km.DeleteColumn}
}

func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Up, km.Down, km.Left, km.Right, km.PageUp, km.PageDown, km.Home, km.End},
		{km.Rename, km.Save, km.Cancel, km.Copy, km.Paste},
		{km.AddColumnBefore, km.AddColumnAfter, km.DeleteColumn},
		{km.AddRowBefore, km.AddRowAfter, km.DeleteRow},
	}
}
