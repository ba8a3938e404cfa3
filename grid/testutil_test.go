package grid

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/csvi/protocol"
)

type memClipboard struct {
	s   string
	err error
}

func (c *memClipboard) ReadText() (string, error) { return c.s, c.err }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return c.err }

type intentLog struct {
	intents []protocol.Intent
}

func (l *intentLog) emit(in protocol.Intent) { l.intents = append(l.intents, in) }

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestModel(t *testing.T, data [][]string) (Model, *intentLog) {
	t.Helper()
	log := &intentLog{}
	m := New(Config{Emit: log.emit})
	m = m.SetData(data)
	return m, log
}

func grid3x3() [][]string {
	return [][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"g", "h", "i"},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func wantCursor(t *testing.T, m Model, want Cell) {
	t.Helper()
	got, ok := m.Cursor()
	if !ok {
		t.Fatalf("expected a focused cell")
	}
	if got != want {
		t.Fatalf("cursor=%+v, want %+v", got, want)
	}
}

func wantIntents(t *testing.T, l *intentLog, want ...protocol.Intent) {
	t.Helper()
	if len(l.intents) != len(want) {
		t.Fatalf("intents=%+v, want %+v", l.intents, want)
	}
	for i := range want {
		if l.intents[i] != want[i] {
			t.Fatalf("intent %d=%+v, want %+v", i, l.intents[i], want[i])
		}
	}
}
