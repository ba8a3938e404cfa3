package grid

// screenToCell maps a point relative to the grid's top-left corner to the
// data cell drawn there. Headers and borders left of the first column are
// not cells; a column's right border belongs to that column.
func (m Model) screenToCell(x, y int) (Cell, bool) {
	if !m.HasData() {
		return Cell{}, false
	}
	w := m.window()

	r := y - headerLines
	if r < 0 || r >= w.rowCount {
		return Cell{}, false
	}

	x0 := borderWidth + w.rowHeaderWidth + cellPadding + borderWidth
	if x < x0 {
		return Cell{}, false
	}
	for i, cw := range w.widths {
		end := x0 + cw + cellPadding
		if x <= end {
			return Cell{Col: w.colStart + i, Row: w.rowStart + r}, true
		}
		x0 = end + borderWidth
	}
	return Cell{}, false
}
