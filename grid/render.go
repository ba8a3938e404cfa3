package grid

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/csvi/internal/grapheme"
)

const ellipsis = "…"

// View renders the visible window of the grid. A blank grid renders as an
// empty string.
func (m Model) View() string {
	if !m.HasData() {
		return ""
	}
	w := m.window()
	if len(w.widths) == 0 || w.rowCount == 0 {
		return ""
	}

	headers := make([]string, 0, len(w.widths)+1)
	headers = append(headers, strings.Repeat(" ", w.rowHeaderWidth))
	for i, cw := range w.widths {
		headers = append(headers, fitCell(ColumnName(w.colStart+i), cw))
	}

	rows := make([][]string, 0, w.rowCount)
	for r := w.rowStart; r < w.rowEnd(); r++ {
		row := make([]string, 0, len(w.widths)+1)
		num := strconv.Itoa(r + 1)
		row = append(row, strings.Repeat(" ", w.rowHeaderWidth-len(num))+num)
		for i, cw := range w.widths {
			c := Cell{Col: w.colStart + i, Row: r}
			if m.state == Editing && c == m.focus {
				row = append(row, fitStyled(m.input.View(), cw))
				continue
			}
			row = append(row, fitCell(m.Value(c), cw))
		}
		rows = append(rows, row)
	}

	focusRow := m.focus.Row - w.rowStart
	focusCol := m.focus.Col - w.colStart + 1
	st := m.cfg.Style

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = st.Header
			case col == 0:
				s = st.RowHeader
			case row == focusRow && col == focusCol && m.state == Editing:
				s = st.Editing
			case row == focusRow && col == focusCol:
				s = st.Focused
			default:
				s = st.Cell
			}
			return s.Padding(0, 1)
		})
	return t.String()
}

// fitCell makes plain cell text exactly width cells wide.
func fitCell(s string, width int) string {
	s = grapheme.Truncate(grapheme.Sanitize(s), width, ellipsis)
	if pad := width - grapheme.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// fitStyled is fitCell for text that already carries ANSI sequences.
func fitStyled(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
