package grid

import tea "github.com/charmbracelet/bubbletea"

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if !m.focused || msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button { //nolint:exhaustive
	case tea.MouseButtonWheelUp:
		m.scrollRows(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollRows(1)
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	c, ok := m.screenToCell(msg.X, msg.Y)
	if !ok {
		return m, nil
	}

	now := m.cfg.Now()
	double := m.lastClick.ok && m.lastClick.cell == c && now.Sub(m.lastClick.at) <= m.cfg.DoubleClick
	m.lastClick = clickState{at: now, cell: c, ok: !double}

	if m.state == Editing {
		if c == m.focus {
			return m, nil
		}
		// Clicking elsewhere takes focus from the input.
		m = m.closeEditor(true)
	}

	m = m.FocusCell(c)
	if double {
		return m.openEditor(false, "")
	}
	return m, nil
}
