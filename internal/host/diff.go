package host

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"

	"github.com/iw2rmb/csvi/buffer"
)

// diffEdits returns the edits turning before, the current text of doc, into
// after. Edits are widened to whole lines so no boundary falls inside an
// end-of-line sequence. Offsets become positions through doc; if doc moved
// on since before was read, diffEdits fails with buffer.ErrVersionMismatch.
func diffEdits(doc *buffer.Buffer, before, after string) ([]buffer.TextEdit, error) {
	raw := rawEdits(before, after)
	if len(raw) == 0 {
		return nil, nil
	}

	var (
		out    []buffer.TextEdit
		group  []udiff.Edit
		gStart int
		gEnd   int
	)
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		var b strings.Builder
		pos := gStart
		for _, e := range group {
			b.WriteString(before[pos:e.Start])
			b.WriteString(e.New)
			pos = e.End
		}
		b.WriteString(before[pos:gEnd])

		start, ok := doc.PosFromByteOffset(gStart, buffer.ConvertPolicy{})
		if !ok {
			return fmt.Errorf("diff offset %d: %w", gStart, buffer.ErrVersionMismatch)
		}
		end, ok := doc.PosFromByteOffset(gEnd, buffer.ConvertPolicy{})
		if !ok {
			return fmt.Errorf("diff offset %d: %w", gEnd, buffer.ErrVersionMismatch)
		}
		out = append(out, buffer.Replace(buffer.Range{Start: start, End: end}, b.String()))
		group = group[:0]
		return nil
	}

	for _, e := range raw {
		start := lineStart(before, e.Start)
		end := lineEnd(before, e.End)
		if len(group) > 0 && start <= gEnd {
			gEnd = max(gEnd, end)
			group = append(group, e)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		gStart, gEnd = start, end
		group = append(group, e)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// rawEdits diffs before and after. udiff decodes its input as runes, so text
// that is not valid UTF-8 falls back to a single edit between the common
// prefix and suffix.
func rawEdits(before, after string) []udiff.Edit {
	if utf8.ValidString(before) && utf8.ValidString(after) {
		return udiff.Strings(before, after)
	}
	if before == after {
		return nil
	}
	p := 0
	for p < len(before) && p < len(after) && before[p] == after[p] {
		p++
	}
	n := 0
	for n < len(before)-p && n < len(after)-p && before[len(before)-1-n] == after[len(after)-1-n] {
		n++
	}
	return []udiff.Edit{{Start: p, End: len(before) - n, New: after[p : len(after)-n]}}
}

func lineStart(s string, off int) int {
	return strings.LastIndexByte(s[:off], '\n') + 1
}

func lineEnd(s string, off int) int {
	i := strings.IndexByte(s[off:], '\n')
	if i < 0 {
		return len(s)
	}
	return off + i + 1
}
