package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/csvi/grid"
)

var (
	statusBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	statusNameStyle = lipgloss.NewStyle().Bold(true)
	statusErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	emptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

func (m Model) gridHeight() int {
	return max(m.height-1-lipgloss.Height(m.help.View(m.helpKeys())), 0)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.grid.View()
	if body == "" {
		body = emptyStyle.Render("empty document: add a row to start")
	}
	if h := m.gridHeight(); h > 0 {
		body = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.statusLine(),
		m.help.View(m.helpKeys()),
	)
}

func (m Model) statusLine() string {
	name := m.cfg.Title
	if m.cfg.Host != nil && m.cfg.Host.Dirty() {
		name += " *"
	}

	parts := []string{statusNameStyle.Render(name)}
	if c, ok := m.grid.Cursor(); ok {
		rows, cols := m.grid.Dims()
		parts = append(parts,
			fmt.Sprintf("%s%d", grid.ColumnName(c.Col), c.Row+1),
			fmt.Sprintf("%dx%d", rows, cols),
		)
	}
	if m.grid.State() == grid.Editing {
		parts = append(parts, "EDIT")
	}
	if m.status != "" {
		msg := m.status
		if m.errored {
			msg = statusErrStyle.Render(msg)
		}
		parts = append(parts, msg)
	}

	line := strings.Join(parts, "  ")
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
		return statusBarStyle.Width(m.width).Render(line)
	}
	return statusBarStyle.Render(line)
}
