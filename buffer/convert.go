package buffer

import "unicode/utf8"

type OffsetClampMode uint8

const (
	OffsetError OffsetClampMode = iota
	OffsetClamp
)

// ConvertPolicy controls how out-of-range offsets and positions are handled.
// The end-of-line sequence counts with its own byte and rune length.
// Positions carry byte columns, so a byte offset off a character boundary
// only fails inside a valid multi-byte sequence.
type ConvertPolicy struct {
	ClampMode OffsetClampMode
}

func (b *Buffer) PosFromByteOffset(off int, p ConvertPolicy) (Pos, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	off, ok := clampOffset(off, b.docLen(byteUnit), p.ClampMode)
	if !ok {
		return Pos{}, false
	}
	return b.offsetToPos(off, byteUnit)
}

func (b *Buffer) ByteOffsetFromPos(pos Pos, p ConvertPolicy) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.normalizePosForMode(pos, p.ClampMode)
	if !ok {
		return 0, false
	}
	return b.posToOffset(pos, byteUnit), true
}

func (b *Buffer) PosFromRuneOffset(off int, p ConvertPolicy) (Pos, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	off, ok := clampOffset(off, b.docLen(runeUnit), p.ClampMode)
	if !ok {
		return Pos{}, false
	}
	return b.offsetToPos(off, runeUnit)
}

func (b *Buffer) RuneOffsetFromPos(pos Pos, p ConvertPolicy) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.normalizePosForMode(pos, p.ClampMode)
	if !ok {
		return 0, false
	}
	return b.posToOffset(pos, runeUnit), true
}

// unit is what an offset counts: bytes or runes. A byte that is not part
// of a valid UTF-8 sequence counts as one rune.
type unit uint8

const (
	byteUnit unit = iota
	runeUnit
)

func (u unit) count(s string) int {
	if u == byteUnit {
		return len(s)
	}
	return utf8.RuneCountInString(s)
}

// colAt maps off, counted in u from the start of line, to a byte column.
// Offsets inside an encoded character have no column.
func colAt(line string, off int, u unit) (int, bool) {
	n := 0
	for col := 0; col < len(line); {
		if n == off {
			return col, true
		}
		_, size := utf8.DecodeRuneInString(line[col:])
		step := 1
		if u == byteUnit {
			step = size
		}
		if off < n+step {
			return 0, false
		}
		n += step
		col += size
	}
	if n == off {
		return len(line), true
	}
	return 0, false
}

func clampOffset(off, max int, mode OffsetClampMode) (int, bool) {
	switch mode {
	case OffsetError:
		if off < 0 || off > max {
			return 0, false
		}
		return off, true
	case OffsetClamp:
		if off < 0 {
			return 0, true
		}
		if off > max {
			return max, true
		}
		return off, true
	default:
		return 0, false
	}
}

func (b *Buffer) normalizePosForMode(pos Pos, mode OffsetClampMode) (Pos, bool) {
	switch mode {
	case OffsetError:
		clamped := b.clampPos(pos)
		if clamped != pos {
			return Pos{}, false
		}
		return pos, true
	case OffsetClamp:
		return b.clampPos(pos), true
	default:
		return Pos{}, false
	}
}

func (b *Buffer) docLen(u unit) int {
	total := u.count(b.eol) * (len(b.lines) - 1)
	for _, line := range b.lines {
		total += u.count(line)
	}
	return total
}

// offsetToPos maps off to a position. Offsets that fall inside an encoded
// character or inside the end-of-line sequence have no position.
func (b *Buffer) offsetToPos(off int, u unit) (Pos, bool) {
	cur := 0
	sep := u.count(b.eol)

	for row, line := range b.lines {
		n := u.count(line)
		if off <= cur+n {
			col, ok := colAt(line, off-cur, u)
			if !ok {
				return Pos{}, false
			}
			return Pos{Row: row, Col: col}, true
		}
		cur += n
		if off < cur+sep {
			return Pos{}, false
		}
		cur += sep
	}

	return Pos{}, false
}

func (b *Buffer) posToOffset(pos Pos, u unit) int {
	sep := u.count(b.eol)
	off := 0
	for row := 0; row < pos.Row; row++ {
		off += u.count(b.lines[row]) + sep
	}
	return off + u.count(b.lines[pos.Row][:pos.Col])
}
