package buffer

import (
	"strings"
	"sync"
)

// DefaultEOL is the line separator used when Options.EOL is empty.
const DefaultEOL = "\n"

type Options struct {
	EOL          string // default: "\n"
	HistoryLimit int    // default: 1000; negative disables history
}

// Buffer is the document state: lines, version, history and subscribers.
// Text is kept as given; bytes that are not valid UTF-8 survive every edit.
//
// All methods are safe for concurrent use. Edits are serialized by an
// internal lock; change listeners run after the lock is released.
type Buffer struct {
	mu sync.Mutex

	lines   []string
	eol     string
	version uint64

	opt  Options
	hist historyState

	lastChange    Change
	hasLastChange bool

	subs    []subscriber
	nextSub uint64
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	if opt.EOL == "" {
		opt.EOL = DefaultEOL
	}
	return &Buffer{
		lines:   splitLines(text, opt.EOL),
		eol:     opt.EOL,
		version: 0,
		opt:     opt,
	}
}

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text()
}

func (b *Buffer) EOL() string { return b.eol }

func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// LineCount returns the number of lines. It is always at least 1.
func (b *Buffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Line returns a snapshot of the line at row.
func (b *Buffer) Line(row int) (Line, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if row < 0 || row >= len(b.lines) {
		return Line{}, false
	}

	r := Range{
		Start: Pos{Row: row, Col: 0},
		End:   Pos{Row: row, Col: len(b.lines[row])},
	}
	withBreak := r
	if row < len(b.lines)-1 {
		withBreak.End = Pos{Row: row + 1, Col: 0}
	}
	return Line{
		Row:                     row,
		Text:                    b.lines[row],
		Range:                   r,
		RangeIncludingLineBreak: withBreak,
	}, true
}

// Snapshot returns the text and the version it belongs to, read atomically.
func (b *Buffer) Snapshot() (text string, version uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text(), b.version
}

// text joins the lines; callers hold b.mu.
func (b *Buffer) text() string {
	return strings.Join(b.lines, b.eol)
}

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

func (b *Buffer) clampPos(p Pos) Pos {
	return ClampPos(p, len(b.lines), b.lineLen)
}

// splitLines always returns at least one line.
func splitLines(text, eol string) []string {
	if eol == "" {
		eol = DefaultEOL
	}
	return strings.Split(text, eol)
}
