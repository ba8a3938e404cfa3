package docsync

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iw2rmb/csvi/buffer"
)

// snapshot is the document as one operation sees it.
type snapshot struct {
	lines   []string
	eol     string
	version uint64
}

func (s *Synchronizer) snapshot() snapshot {
	text, version := s.doc.Snapshot()
	eol := s.doc.EOL()
	return snapshot{lines: splitLines(text, eol), eol: eol, version: version}
}

func splitLines(text, eol string) []string {
	if eol == "" {
		eol = "\n"
	}
	return strings.Split(text, eol)
}

func (sn snapshot) lineRange(row int) buffer.Range {
	return buffer.Range{
		Start: buffer.Pos{Row: row, Col: 0},
		End:   buffer.Pos{Row: row, Col: len(sn.lines[row])},
	}
}

func (s *Synchronizer) commit(sn snapshot, edits []buffer.TextEdit) error {
	if len(edits) == 0 {
		return nil
	}
	_, err := s.doc.ApplyAt(sn.version, edits...)
	return err
}

// UpdateCell replaces field col of line row with value. A col past the end
// of a short line pads the line with empty fields.
func (s *Synchronizer) UpdateCell(row, col int, value string) error {
	sn := s.snapshot()
	if row < 0 || row >= len(sn.lines) {
		return fmt.Errorf("update cell (%d,%d): %w", col, row, ErrRowOutOfRange)
	}
	if col < 0 {
		return fmt.Errorf("update cell (%d,%d): %w", col, row, ErrColumnOutOfRange)
	}

	fields := splitFields(sn.lines[row])
	for len(fields) <= col {
		fields = append(fields, "")
	}
	fields[col] = value

	return s.commit(sn, []buffer.TextEdit{
		buffer.Replace(sn.lineRange(row), joinFields(fields)),
	})
}

// InsertColumn inserts one separator per line at the boundary of the
// effective column (col, or col+1 when isBefore is false). Field text is left
// untouched; lines with fewer fields get the separator at their end.
func (s *Synchronizer) InsertColumn(col int, isBefore bool) error {
	if col < 0 {
		return fmt.Errorf("insert column %d: %w", col, ErrColumnOutOfRange)
	}
	at := col
	if !isBefore {
		at++
	}

	sn := s.snapshot()
	edits := make([]buffer.TextEdit, 0, len(sn.lines))
	for row, line := range sn.lines {
		fields := splitFields(line)
		n := min(at, len(fields))
		off := len(joinFields(fields[:n]))
		edits = append(edits, buffer.Insert(buffer.Pos{Row: row, Col: off}, Separator))
	}
	return s.commit(sn, edits)
}

// DeleteColumn removes field col from every line that has it.
func (s *Synchronizer) DeleteColumn(col int) error {
	if col < 0 {
		return fmt.Errorf("delete column %d: %w", col, ErrColumnOutOfRange)
	}

	sn := s.snapshot()
	var edits []buffer.TextEdit
	for row, line := range sn.lines {
		fields := splitFields(line)
		if col >= len(fields) {
			continue
		}
		fields = slices.Delete(fields, col, col+1)
		edits = append(edits, buffer.Replace(sn.lineRange(row), joinFields(fields)))
	}
	return s.commit(sn, edits)
}

// AddRow inserts a blank line shaped like line 0 before row, or after it
// when isBefore is false.
func (s *Synchronizer) AddRow(row int, isBefore bool) error {
	sn := s.snapshot()
	at := row
	if !isBefore {
		at++
	}
	if at < 0 || at > len(sn.lines) {
		return fmt.Errorf("add row %d: %w", row, ErrRowOutOfRange)
	}

	blank := blankLine(columnCount(sn.lines))
	var edit buffer.TextEdit
	if at == len(sn.lines) {
		last := len(sn.lines) - 1
		edit = buffer.Insert(sn.lineRange(last).End, sn.eol+blank)
	} else {
		edit = buffer.Insert(buffer.Pos{Row: at, Col: 0}, blank+sn.eol)
	}
	return s.commit(sn, []buffer.TextEdit{edit})
}

// DeleteRow removes line row with its line break. The last line of a
// multi-line document takes the preceding line break with it instead.
func (s *Synchronizer) DeleteRow(row int) error {
	sn := s.snapshot()
	if row < 0 || row >= len(sn.lines) {
		return fmt.Errorf("delete row %d: %w", row, ErrRowOutOfRange)
	}

	var r buffer.Range
	switch {
	case len(sn.lines) == 1:
		r = sn.lineRange(row)
	case row < len(sn.lines)-1:
		r = buffer.Range{
			Start: buffer.Pos{Row: row, Col: 0},
			End:   buffer.Pos{Row: row + 1, Col: 0},
		}
	default:
		r = buffer.Range{
			Start: sn.lineRange(row - 1).End,
			End:   sn.lineRange(row).End,
		}
	}
	return s.commit(sn, []buffer.TextEdit{buffer.Delete(r)})
}

// columnCount is the field count of line 0, or 0 for no lines.
func columnCount(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	return len(splitFields(lines[0]))
}

func blankLine(columns int) string {
	if columns < 2 {
		return ""
	}
	b := make([]byte, columns-1)
	for i := range b {
		b[i] = Separator[0]
	}
	return string(b)
}
