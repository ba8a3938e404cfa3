package grid

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/csvi/protocol"
)

// cellX returns the screen column where text starts on a rendered line.
func cellX(t *testing.T, line, text string) int {
	t.Helper()
	i := strings.Index(line, text)
	if i < 0 {
		t.Fatalf("%q not on line %q", text, line)
	}
	return ansi.StringWidth(line[:i])
}

func TestHitTest_MatchesRenderedLayout(t *testing.T) {
	m, _ := newTestModel(t, [][]string{{"aa", "bbbb", "c"}, {"dd", "eeee", "f"}})
	lines := plainView(t, m)

	cases := []struct {
		text string
		line int
		want Cell
	}{
		{text: "aa", line: headerLines, want: Cell{Col: 0, Row: 0}},
		{text: "eeee", line: headerLines + 1, want: Cell{Col: 1, Row: 1}},
		{text: "f", line: headerLines + 1, want: Cell{Col: 2, Row: 1}},
	}
	for _, tc := range cases {
		x := cellX(t, lines[tc.line], tc.text)
		got, ok := m.screenToCell(x, tc.line)
		if !ok || got != tc.want {
			t.Fatalf("screenToCell(%d,%d)=(%+v,%v), want %+v", x, tc.line, got, ok, tc.want)
		}
	}
}

func TestHitTest_HeadersAndGutterAreNotCells(t *testing.T) {
	m, _ := newTestModel(t, grid3x3())
	for _, p := range [][2]int{{5, 0}, {5, 1}, {5, 2}, {0, 3}, {1, 3}, {999, 3}, {5, 99}} {
		if c, ok := m.screenToCell(p[0], p[1]); ok {
			t.Fatalf("screenToCell(%d,%d)=%+v, want no cell", p[0], p[1], c)
		}
	}
}

func TestMouse_ClickFocusesAndDoubleClickOpensEditor(t *testing.T) {
	clock := &fakeClock{now: time.Unix(100, 0)}
	log := &intentLog{}
	m := New(Config{Emit: log.emit, Now: clock.Now, DoubleClick: 300 * time.Millisecond}).SetData(grid3x3())
	lines := plainView(t, m)

	x := cellX(t, lines[headerLines+2], "h")
	click := tea.MouseMsg{X: x, Y: headerLines + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	m = press(m, click)
	wantCursor(t, m, Cell{Col: 1, Row: 2})
	if m.State() != Browse {
		t.Fatalf("state=%v, want browse after one click", m.State())
	}

	clock.now = clock.now.Add(100 * time.Millisecond)
	m = press(m, click)
	if m.State() != Editing || m.EditValue() != "h" {
		t.Fatalf("state=%v value=%q, want editing %q", m.State(), m.EditValue(), "h")
	}
	wantIntents(t, log)
}

func TestMouse_SlowSecondClickIsNotDouble(t *testing.T) {
	clock := &fakeClock{now: time.Unix(100, 0)}
	m := New(Config{Now: clock.Now, DoubleClick: 300 * time.Millisecond}).SetData(grid3x3())
	lines := plainView(t, m)
	x := cellX(t, lines[headerLines], "a")
	click := tea.MouseMsg{X: x, Y: headerLines, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	m = press(m, click)
	clock.now = clock.now.Add(time.Second)
	m = press(m, click)
	if m.State() != Browse {
		t.Fatalf("state=%v, want browse", m.State())
	}
}

func TestMouse_ClickElsewhereSavesEditor(t *testing.T) {
	log := &intentLog{}
	m := New(Config{Emit: log.emit}).SetData(grid3x3())
	lines := plainView(t, m)
	x := cellX(t, lines[headerLines+1], "e")

	m = press(m, keyRunes("k"))
	m = press(m, tea.MouseMsg{X: x, Y: headerLines + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if m.State() != Browse {
		t.Fatalf("state=%v, want browse", m.State())
	}
	wantCursor(t, m, Cell{Col: 1, Row: 1})
	wantIntents(t, log, protocol.NewUpdateCell(0, 0, "k"))
}

func TestMouse_WheelScrollsWithoutMovingFocus(t *testing.T) {
	data := make([][]string, 20)
	for i := range data {
		data[i] = []string{"x"}
	}
	m, _ := newTestModel(t, data)
	m = m.SetSize(20, 8)

	m = press(m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if got := m.window().rowStart; got != 1 {
		t.Fatalf("row start=%d, want 1", got)
	}
	wantCursor(t, m, Cell{})

	m = press(m,
		tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp},
		tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp},
	)
	if got := m.window().rowStart; got != 0 {
		t.Fatalf("row start=%d, want 0", got)
	}
}
