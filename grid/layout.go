package grid

import (
	"strconv"

	"github.com/iw2rmb/csvi/internal/grapheme"
)

// Table geometry. Every column, including the row header, is padded by one
// cell on each side and followed by a one-cell border.
const (
	cellPadding  = 2
	borderWidth  = 1
	headerLines  = 3 // top border, header row, header separator
	chromeLines  = headerLines + 1
	minBodyLines = 1
)

// window is the part of the grid that fits the current size.
type window struct {
	rowHeaderWidth int

	rowStart int
	rowCount int

	colStart int
	widths   []int // content widths of the visible columns
}

func (w window) colEnd() int { return w.colStart + len(w.widths) }
func (w window) rowEnd() int { return w.rowStart + w.rowCount }

func (m Model) rowHeaderWidth() int {
	return len(strconv.Itoa(max(m.rows, 1)))
}

// columnWidth is the content width of column c, bounded by the configured
// minimum and maximum.
func (m Model) columnWidth(c int) int {
	w := grapheme.Width(ColumnName(c))
	for _, row := range m.data {
		if c < len(row) {
			w = max(w, grapheme.Width(grapheme.Sanitize(row[c])))
		}
	}
	if m.state == Editing && c == m.focus.Col {
		w = max(w, grapheme.Width(m.input.Value())+1)
	}
	return clampInt(w, m.cfg.MinColumnWidth, m.cfg.MaxColumnWidth)
}

// bodyRows is the number of data rows that fit the height.
func (m Model) bodyRows() int {
	if m.height <= 0 {
		return m.rows
	}
	return max(m.height-chromeLines, minBodyLines)
}

func (m Model) pageRows() int {
	return max(m.bodyRows(), 1)
}

// visibleColumns returns the content widths of the columns that fit the
// width when the window starts at column from. At least one column is
// returned, narrowed if it alone does not fit.
func (m Model) visibleColumns(from int) []int {
	if from < 0 || from >= m.cols {
		return nil
	}
	used := borderWidth + m.rowHeaderWidth() + cellPadding + borderWidth

	var widths []int
	for c := from; c < m.cols; c++ {
		w := m.columnWidth(c)
		need := w + cellPadding + borderWidth
		if m.width > 0 && used+need > m.width {
			if len(widths) == 0 {
				widths = append(widths, max(m.width-used-cellPadding-borderWidth, 1))
			}
			break
		}
		widths = append(widths, w)
		used += need
	}
	return widths
}

func (m Model) window() window {
	w := window{rowHeaderWidth: m.rowHeaderWidth()}
	if !m.HasData() {
		return w
	}
	w.rowStart = clampInt(m.rowOffset, 0, m.rows-1)
	w.rowCount = min(m.bodyRows(), m.rows-w.rowStart)
	w.colStart = clampInt(m.colOffset, 0, m.cols-1)
	w.widths = m.visibleColumns(w.colStart)
	return w
}

// followFocus scrolls the window so the focused cell is visible.
func (m *Model) followFocus() {
	if !m.HasData() {
		m.rowOffset, m.colOffset = 0, 0
		return
	}

	body := m.bodyRows()
	m.rowOffset = clampInt(m.rowOffset, 0, m.rows-1)
	if m.focus.Row < m.rowOffset {
		m.rowOffset = m.focus.Row
	} else if m.focus.Row >= m.rowOffset+body {
		m.rowOffset = m.focus.Row - body + 1
	}

	m.colOffset = clampInt(m.colOffset, 0, m.cols-1)
	if m.focus.Col < m.colOffset {
		m.colOffset = m.focus.Col
		return
	}
	for m.colOffset < m.focus.Col && m.focus.Col >= m.colOffset+len(m.visibleColumns(m.colOffset)) {
		m.colOffset++
	}
}

// scrollRows moves the window by delta rows without moving focus.
func (m *Model) scrollRows(delta int) {
	if !m.HasData() {
		return
	}
	last := max(m.rows-m.bodyRows(), 0)
	m.rowOffset = clampInt(m.rowOffset+delta, 0, last)
}
