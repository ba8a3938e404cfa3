package grid

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/csvi/protocol"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	if m.state == Editing {
		return m.updateEditingKey(msg)
	}
	return m.updateBrowseKey(msg)
}

func (m Model) updateBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.cfg.KeyMap

	// Bracketed paste fills the focused cell, like the paste binding.
	if msg.Type == tea.KeyRunes && msg.Paste {
		if m.HasData() {
			m.emit(protocol.NewUpdateCell(m.focus.Row, m.focus.Col, firstLine(string(msg.Runes))))
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Up):
		return m.FocusCell(Cell{Col: m.focus.Col, Row: m.focus.Row - 1}), nil
	case key.Matches(msg, km.Down):
		return m.FocusCell(Cell{Col: m.focus.Col, Row: m.focus.Row + 1}), nil
	case key.Matches(msg, km.Left):
		return m.FocusCell(Cell{Col: m.focus.Col - 1, Row: m.focus.Row}), nil
	case key.Matches(msg, km.Right):
		return m.FocusCell(Cell{Col: m.focus.Col + 1, Row: m.focus.Row}), nil
	case key.Matches(msg, km.PageUp):
		return m.FocusCell(Cell{Col: m.focus.Col, Row: m.focus.Row - m.pageRows()}), nil
	case key.Matches(msg, km.PageDown):
		return m.FocusCell(Cell{Col: m.focus.Col, Row: m.focus.Row + m.pageRows()}), nil
	case key.Matches(msg, km.Home):
		return m.FocusCell(Cell{Col: 0, Row: m.focus.Row}), nil
	case key.Matches(msg, km.End):
		return m.FocusCell(Cell{Col: m.cols - 1, Row: m.focus.Row}), nil

	case key.Matches(msg, km.Rename):
		return m.openEditor(false, "")

	case key.Matches(msg, km.AddColumnBefore):
		m.emit(protocol.NewAddColumn(m.focus.Col, true))
	case key.Matches(msg, km.AddColumnAfter):
		m.emit(protocol.NewAddColumn(m.focus.Col, false))
	case key.Matches(msg, km.DeleteColumn):
		m.emit(protocol.NewDeleteColumn(m.focus.Col))
	case key.Matches(msg, km.AddRowBefore):
		m.emit(protocol.NewAddRow(m.focus.Row, true))
	case key.Matches(msg, km.AddRowAfter):
		m.emit(protocol.NewAddRow(m.focus.Row, false))
	case key.Matches(msg, km.DeleteRow):
		m.emit(protocol.NewDeleteRow(m.focus.Row))

	case key.Matches(msg, km.Copy):
		m.copyCell()
	case key.Matches(msg, km.Paste):
		m.pasteCell()

	default:
		if r, ok := opensEditor(msg); ok {
			return m.openEditor(true, string(r))
		}
	}
	return m, nil
}

// opensEditor reports whether msg is a single letter or digit typed without
// modifiers.
func opensEditor(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || msg.Alt || msg.Paste || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return r, true
	}
	return 0, false
}

func (m Model) updateEditingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Save):
		return m.closeEditor(true), nil
	case key.Matches(msg, km.Cancel):
		return m.closeEditor(false), nil
	case key.Matches(msg, km.Paste):
		m.pasteIntoEditor()
		return m, nil
	}

	// The editor holds one line.
	if msg.Type == tea.KeyRunes && msg.Paste {
		msg.Runes = []rune(firstLine(string(msg.Runes)))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// openEditor switches to Editing on the focused cell. A reset editor starts
// from initial instead of the cell's value.
func (m Model) openEditor(reset bool, initial string) (Model, tea.Cmd) {
	if m.state == Editing || !m.HasData() {
		return m, nil
	}

	value := initial
	if !reset {
		value = m.Value(m.focus)
	}
	m.state = Editing
	m.input.Width = max(m.columnWidth(m.focus.Col)-1, 1)
	m.input.SetValue(value)
	m.pristine, m.hasPristine = m.input.Value(), !reset
	m.input.CursorEnd()
	cmd := m.input.Focus()
	m.followFocus()
	return m, cmd
}

// closeEditor leaves Editing. A save emits one update intent when the text
// was edited and differs from the cell's value.
func (m Model) closeEditor(save bool) Model {
	if m.state != Editing {
		return m
	}
	m.state = Browse
	value := m.input.Value()
	untouched := m.hasPristine && value == m.pristine
	m.input.Blur()
	m.input.SetValue("")
	m.pristine, m.hasPristine = "", false

	if save && m.HasData() && !untouched && value != m.Value(m.focus) {
		m.emit(protocol.NewUpdateCell(m.focus.Row, m.focus.Col, value))
	}
	return m
}

func (m Model) copyCell() {
	if m.cfg.Clipboard == nil || !m.HasData() {
		return
	}
	_ = m.cfg.Clipboard.WriteText(m.Value(m.focus))
}

func (m Model) pasteCell() {
	if m.cfg.Clipboard == nil || !m.HasData() {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		return
	}
	s = firstLine(s)
	if s == m.Value(m.focus) {
		return
	}
	m.emit(protocol.NewUpdateCell(m.focus.Row, m.focus.Col, s))
}

func (m *Model) pasteIntoEditor() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil || s == "" {
		return
	}
	ins := []rune(firstLine(s))
	val := []rune(m.input.Value())
	pos := clampInt(m.input.Position(), 0, len(val))

	out := make([]rune, 0, len(val)+len(ins))
	out = append(out, val[:pos]...)
	out = append(out, ins...)
	out = append(out, val[pos:]...)
	m.input.SetValue(string(out))
	m.input.SetCursor(pos + len(ins))
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
