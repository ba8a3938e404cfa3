package buffer

import (
	"fmt"
	"sort"
	"strings"
)

// Apply applies edits as one atomic batch.
//
// Semantics:
// - Every range is interpreted against the document before the batch.
// - Ranges are validated first; on error nothing is applied.
// - Edits are applied from the end of the document backwards.
// - Empty range + non-empty text inserts; non-empty range + empty text deletes.
// - A batch with no effective edit does not bump the version or notify.
func (b *Buffer) Apply(edits ...TextEdit) (Change, error) {
	return b.ApplySource(ChangeSourceLocal, edits...)
}

// ApplySource is Apply with an explicit change origin.
func (b *Buffer) ApplySource(source ChangeSource, edits ...TextEdit) (Change, error) {
	return b.apply(source, nil, edits)
}

// ApplyAt is Apply that only succeeds while the document is still at
// version. Callers that computed edits from a Snapshot use it so a change
// landing in between fails with ErrVersionMismatch instead of being
// clobbered.
func (b *Buffer) ApplyAt(version uint64, edits ...TextEdit) (Change, error) {
	return b.apply(ChangeSourceLocal, &version, edits)
}

// ApplySourceAt is ApplyAt with an explicit change origin.
func (b *Buffer) ApplySourceAt(source ChangeSource, version uint64, edits ...TextEdit) (Change, error) {
	return b.apply(source, &version, edits)
}

func (b *Buffer) apply(source ChangeSource, version *uint64, edits []TextEdit) (Change, error) {
	if len(edits) == 0 {
		return Change{}, nil
	}

	b.mu.Lock()
	if version != nil && *version != b.version {
		cur := b.version
		b.mu.Unlock()
		return Change{}, fmt.Errorf("at version %d, document is %d: %w", *version, cur, ErrVersionMismatch)
	}
	ordered, err := b.prepareBatch(edits)
	if err != nil {
		b.mu.Unlock()
		return Change{}, err
	}

	prev := b.snapshot()
	change := b.beginChange(source)

	applied := make([]AppliedEdit, 0, len(ordered))
	for i := len(ordered) - 1; i >= 0; i-- {
		e := ordered[i]
		a, changed := b.replaceRange(e.Range, e.Text)
		if !changed {
			continue
		}
		applied = append(applied, a)
	}
	if len(applied) == 0 {
		b.mu.Unlock()
		return Change{}, nil
	}

	for i := len(applied) - 1; i >= 0; i-- {
		change.addAppliedEdit(applied[i])
	}
	b.version++
	b.recordUndo(prev)
	out := b.commitChange(change)
	subs := b.subscribers()
	b.mu.Unlock()

	notify(subs, out)
	return out, nil
}

// prepareBatch validates edits and returns them sorted in document order.
// Callers hold b.mu.
func (b *Buffer) prepareBatch(edits []TextEdit) ([]TextEdit, error) {
	ordered := make([]TextEdit, len(edits))
	for i, e := range edits {
		r := NormalizeRange(e.Range)
		if !b.validPos(r.Start) || !b.validPos(r.End) {
			return nil, fmt.Errorf("edit %d %v: %w", i, r, ErrRangeOutOfBounds)
		}
		ordered[i] = TextEdit{Range: r, Text: e.Text}
	}

	// At a shared start an insert sorts before a replace, so the overlap
	// check below does not depend on input order.
	sort.SliceStable(ordered, func(i, j int) bool {
		x, y := ordered[i].Range, ordered[j].Range
		if c := ComparePos(x.Start, y.Start); c != 0 {
			return c < 0
		}
		return x.IsEmpty() && !y.IsEmpty()
	})

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1].Range, ordered[i].Range
		if ComparePos(cur.Start, prev.End) < 0 {
			return nil, fmt.Errorf("edits %v and %v: %w", prev, cur, ErrOverlappingEdits)
		}
		if prev.IsEmpty() && cur.IsEmpty() && prev.Start == cur.Start {
			return nil, fmt.Errorf("two inserts at %v: %w", cur.Start, ErrOverlappingEdits)
		}
	}
	return ordered, nil
}

func (b *Buffer) validPos(p Pos) bool {
	if p.Row < 0 || p.Row >= len(b.lines) {
		return false
	}
	return p.Col >= 0 && p.Col <= len(b.lines[p.Row])
}

// replaceRange swaps the text in r for text. r must be valid and normalized.
func (b *Buffer) replaceRange(r Range, text string) (AppliedEdit, bool) {
	deleted := b.textInRange(r)
	if deleted == text {
		return AppliedEdit{}, false
	}

	startRow, startCol := r.Start.Row, r.Start.Col
	endRow, endCol := r.End.Row, r.End.Col

	prefix := b.lines[startRow][:startCol]
	suffix := b.lines[endRow][endCol:]

	repl := strings.Split(text, b.eol)
	repl[0] = prefix + repl[0]
	repl[len(repl)-1] += suffix

	out := make([]string, 0, len(b.lines)-(endRow-startRow+1)+len(repl))
	out = append(out, b.lines[:startRow]...)
	out = append(out, repl...)
	out = append(out, b.lines[endRow+1:]...)
	b.lines = out

	return AppliedEdit{
		Range:       r,
		InsertText:  text,
		DeletedText: deleted,
	}, true
}

func (b *Buffer) textInRange(r Range) string {
	if r.IsEmpty() {
		return ""
	}
	if r.Start.Row == r.End.Row {
		return b.lines[r.Start.Row][r.Start.Col:r.End.Col]
	}

	var sb strings.Builder
	for row := r.Start.Row; row <= r.End.Row; row++ {
		if row > r.Start.Row {
			sb.WriteString(b.eol)
		}
		start, end := 0, len(b.lines[row])
		if row == r.Start.Row {
			start = r.Start.Col
		}
		if row == r.End.Row {
			end = r.End.Col
		}
		sb.WriteString(b.lines[row][start:end])
	}
	return sb.String()
}
