package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/csvi/grid"
	"github.com/iw2rmb/csvi/internal/host"
	"github.com/iw2rmb/csvi/internal/session"
	"github.com/iw2rmb/csvi/internal/transport"
	"github.com/iw2rmb/csvi/protocol"
)

type fakeLink struct {
	mu   sync.Mutex
	sent []protocol.Intent
	box  *transport.Mailbox
}

func newFakeLink() *fakeLink { return &fakeLink{box: transport.NewMailbox()} }

func (l *fakeLink) Send(in protocol.Intent) {
	l.mu.Lock()
	l.sent = append(l.sent, in)
	l.mu.Unlock()
}

func (l *fakeLink) Updates() *transport.Mailbox { return l.box }

type fakeHost struct {
	dirty   bool
	saves   int
	saveErr error
	undo    bool
	reload  bool
}

func (h *fakeHost) Name() string          { return "data.csv" }
func (h *fakeHost) Dirty() bool           { return h.dirty }
func (h *fakeHost) Undo() bool            { return h.undo }
func (h *fakeHost) Redo() bool            { return false }
func (h *fakeHost) Reload() (bool, error) { return h.reload, nil }

func (h *fakeHost) Save() error {
	h.saves++
	if h.saveErr == nil {
		h.dirty = false
	}
	return h.saveErr
}

type memSessions struct {
	states map[string]session.State
}

func (s *memSessions) Load(_ context.Context, key string) (session.State, error) {
	st, ok := s.states[key]
	if !ok {
		return session.State{}, session.ErrNotFound
	}
	return st, nil
}

func (s *memSessions) Save(_ context.Context, st session.State) error {
	if s.states == nil {
		s.states = map[string]session.State{}
	}
	s.states[st.Key] = st
	return nil
}

func newTestApp(t *testing.T, cfg Config) Model {
	t.Helper()
	if cfg.Link == nil {
		cfg.Link = newFakeLink()
	}
	if cfg.Title == "" {
		cfg.Title = "data.csv"
	}
	m := New(context.Background(), cfg)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func withGrid(t *testing.T, m Model, data [][]string) Model {
	t.Helper()
	m, _ = send(t, m, updateMsg{update: protocol.GridUpdate{Data: data, Version: 1}})
	return m
}

func TestWaitForUpdateDeliversMailbox(t *testing.T) {
	link := newFakeLink()
	m := newTestApp(t, Config{Link: link})

	link.box.Put(protocol.GridUpdate{Data: [][]string{{"a", "b"}}, Version: 3})
	msg := m.waitForUpdate()()
	u, ok := msg.(updateMsg)
	if !ok {
		t.Fatalf("msg=%T, want updateMsg", msg)
	}

	m, cmd := send(t, m, u)
	if cmd == nil {
		t.Fatalf("expected the next wait command")
	}
	if rows, cols := m.Grid().Dims(); rows != 1 || cols != 2 {
		t.Fatalf("dims=(%d,%d), want (1,2)", rows, cols)
	}
	if m.Grid().Version() != 3 {
		t.Fatalf("version=%d, want 3", m.Grid().Version())
	}
}

func TestWaitForUpdateStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(ctx, Config{Link: newFakeLink()})
	if _, ok := m.waitForUpdate()().(linkClosedMsg); !ok {
		t.Fatalf("expected linkClosedMsg after cancel")
	}
}

func TestGridIntentsReachLink(t *testing.T) {
	link := newFakeLink()
	m := withGrid(t, newTestApp(t, Config{Link: link}), [][]string{{"a", "b"}, {"c", "d"}})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown, Alt: true})
	if len(link.sent) != 1 || link.sent[0].Kind != protocol.IntentAddRow {
		t.Fatalf("sent=%+v, want one addRow", link.sent)
	}
	if p := link.sent[0].Payload.(protocol.AddRow); p.Row != 0 || p.IsBefore {
		t.Fatalf("payload=%+v, want row 0 after", p)
	}
}

func TestSaveKey(t *testing.T) {
	h := &fakeHost{dirty: true}
	m := withGrid(t, newTestApp(t, Config{Host: h}), [][]string{{"a"}})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if h.saves != 1 {
		t.Fatalf("saves=%d, want 1", h.saves)
	}
	if s, bad := m.Status(); s != "saved data.csv" || bad {
		t.Fatalf("status=%q err=%v", s, bad)
	}

	h.saveErr = errors.New("disk full")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if s, bad := m.Status(); !bad || !strings.Contains(s, "disk full") {
		t.Fatalf("status=%q err=%v, want save failure", s, bad)
	}
}

func TestHostKeysWithoutHost(t *testing.T) {
	m := withGrid(t, newTestApp(t, Config{}), [][]string{{"a"}})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if s, _ := m.Status(); !strings.Contains(s, "not available") {
		t.Fatalf("status=%q", s)
	}
}

func TestUndoNothing(t *testing.T) {
	m := withGrid(t, newTestApp(t, Config{Host: &fakeHost{}}), [][]string{{"a"}})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if s, _ := m.Status(); s != "nothing to undo" {
		t.Fatalf("status=%q, want nothing to undo", s)
	}
}

func TestHostKeysIgnoredWhileEditing(t *testing.T) {
	h := &fakeHost{}
	m := withGrid(t, newTestApp(t, Config{Host: h}), [][]string{{"a"}})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF2})
	if m.Grid().State() != grid.Editing {
		t.Fatalf("state=%v, want editing", m.Grid().State())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if got := m.Grid().EditValue(); got != "a?" {
		t.Fatalf("edit value=%q, want %q", got, "a?")
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if h.saves != 0 {
		t.Fatalf("save ran while editing")
	}
}

func TestWatchEventsSetStatus(t *testing.T) {
	cases := []struct {
		kind host.EventKind
		want string
		bad  bool
	}{
		{kind: host.EventReloaded, want: "reloaded from disk"},
		{kind: host.EventMissing, want: "file deleted on disk", bad: true},
		{kind: host.EventConflict, want: "file changed on disk", bad: true},
	}
	for _, tc := range cases {
		events := make(chan host.Event, 1)
		m := newTestApp(t, Config{Watch: events})
		m, cmd := send(t, m, watchMsg{event: host.Event{Kind: tc.kind}})
		if cmd == nil {
			t.Fatalf("%v: expected the next watch command", tc.kind)
		}
		s, bad := m.Status()
		if !strings.Contains(s, tc.want) || bad != tc.bad {
			t.Fatalf("%v: status=%q err=%v, want %q err=%v", tc.kind, s, bad, tc.want, tc.bad)
		}
	}
}

func TestQuitSavesSession(t *testing.T) {
	store := &memSessions{}
	m := withGrid(t, newTestApp(t, Config{Sessions: store, SessionKey: "k"}), [][]string{{"a", "b"}, {"c", "d"}})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	st, ok := store.states["k"]
	if !ok {
		t.Fatalf("session not saved")
	}
	if st.FocusRow != 1 || st.FocusCol != 1 {
		t.Fatalf("focus=(%d,%d), want (1,1)", st.FocusCol, st.FocusRow)
	}
	if len(st.Grid.Data) != 2 {
		t.Fatalf("grid=%v", st.Grid.Data)
	}
}

func TestRestoreBeforeLiveUpdate(t *testing.T) {
	store := &memSessions{states: map[string]session.State{
		"k": {Key: "k", Grid: protocol.GridUpdate{Data: [][]string{{"old", "x"}, {"1", "2"}}}, FocusRow: 1, FocusCol: 1},
	}}
	m := newTestApp(t, Config{Sessions: store, SessionKey: "k"})

	msg := m.restore()()
	m, _ = send(t, m, msg)
	if got := m.Grid().Value(grid.Cell{}); got != "old" {
		t.Fatalf("restored value=%q, want old", got)
	}
	if c, _ := m.Grid().Cursor(); c != (grid.Cell{Col: 1, Row: 1}) {
		t.Fatalf("cursor=%+v, want (1,1)", c)
	}

	m = withGrid(t, m, [][]string{{"new", "y"}, {"3", "4"}})
	if got := m.Grid().Value(grid.Cell{}); got != "new" {
		t.Fatalf("value=%q, want live grid", got)
	}
	if c, _ := m.Grid().Cursor(); c != (grid.Cell{Col: 1, Row: 1}) {
		t.Fatalf("cursor=%+v, want focus kept", c)
	}
}

func TestRestoreAfterLiveKeepsLiveGrid(t *testing.T) {
	m := withGrid(t, newTestApp(t, Config{}), [][]string{{"live"}})
	m, _ = send(t, m, restoreMsg{state: session.State{Grid: protocol.GridUpdate{Data: [][]string{{"stale"}}}}})
	if got := m.Grid().Value(grid.Cell{}); got != "live" {
		t.Fatalf("value=%q, want live", got)
	}
}

func TestViewShowsStatus(t *testing.T) {
	h := &fakeHost{dirty: true}
	m := withGrid(t, newTestApp(t, Config{Host: h}), [][]string{{"a", "b"}, {"c", "d"}})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})

	out := ansi.Strip(m.View())
	for _, want := range []string{"data.csv *", "A2", "2x2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestViewEmptyDocument(t *testing.T) {
	m := withGrid(t, newTestApp(t, Config{}), nil)
	if out := ansi.Strip(m.View()); !strings.Contains(out, "empty document") {
		t.Fatalf("view=%q, want empty hint", out)
	}
}

func TestHelpToggle(t *testing.T) {
	m := withGrid(t, newTestApp(t, Config{}), [][]string{{"a"}})
	short := strings.Count(m.View(), "\n")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.help.ShowAll {
		t.Fatalf("expected full help")
	}
	if got := strings.Count(m.View(), "\n"); got != short {
		t.Fatalf("view lines=%d, want %d: full help must fit the same height", got, short)
	}
}
