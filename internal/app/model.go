// Package app is the csvi terminal program: the grid, a status line and a
// help line, plus the keys that act on the document host.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/iw2rmb/csvi/grid"
	"github.com/iw2rmb/csvi/internal/host"
	"github.com/iw2rmb/csvi/internal/session"
	"github.com/iw2rmb/csvi/internal/transport"
	"github.com/iw2rmb/csvi/protocol"
)

// Host is the document owner when the synchronizer runs in this process.
// *host.File implements it.
type Host interface {
	Name() string
	Dirty() bool
	Save() error
	Undo() bool
	Redo() bool
	Reload() (bool, error)
}

// Sessions persists view state. *session.Store implements it.
type Sessions interface {
	Load(ctx context.Context, key string) (session.State, error)
	Save(ctx context.Context, st session.State) error
}

type Config struct {
	// Title names the document in the status line.
	Title string

	Link transport.Link
	// Host is nil for views attached to a remote synchronizer.
	Host Host
	// Watch delivers file events from Host. Optional.
	Watch <-chan host.Event

	Sessions   Sessions
	SessionKey string

	Clipboard grid.Clipboard
	Logger    *log.Logger
	KeyMap    KeyMap

	MinColumnWidth int
	MaxColumnWidth int
	DoubleClick    time.Duration
}

type (
	updateMsg     struct{ update protocol.GridUpdate }
	watchMsg      struct{ event host.Event }
	restoreMsg    struct{ state session.State }
	linkClosedMsg struct{}
)

type Model struct {
	cfg Config
	ctx context.Context
	log *log.Logger

	grid grid.Model
	help help.Model

	width, height int

	live     bool
	status   string
	errored  bool
	quitting bool
}

// New builds the program model. ctx bounds the background waits on the link
// and the watcher.
func New(ctx context.Context, cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(cfg.KeyMap.Quit.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}

	g := grid.New(grid.Config{
		Style:          grid.DefaultStyle(),
		Emit:           cfg.Link.Send,
		Clipboard:      cfg.Clipboard,
		MinColumnWidth: cfg.MinColumnWidth,
		MaxColumnWidth: cfg.MaxColumnWidth,
		DoubleClick:    cfg.DoubleClick,
	})

	return Model{
		cfg:  cfg,
		ctx:  ctx,
		log:  logger.With("component", "app"),
		grid: g.Focus(),
		help: help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.restore(), m.waitForUpdate(), m.waitForWatch())
}

func (m Model) waitForUpdate() tea.Cmd {
	box := m.cfg.Link.Updates()
	ctx := m.ctx
	return func() tea.Msg {
		u, err := box.Next(ctx)
		if err != nil {
			return linkClosedMsg{}
		}
		return updateMsg{update: u}
	}
}

func (m Model) waitForWatch() tea.Cmd {
	events := m.cfg.Watch
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return nil
		}
		return watchMsg{event: evt}
	}
}

func (m Model) restore() tea.Cmd {
	store, key, ctx := m.cfg.Sessions, m.cfg.SessionKey, m.ctx
	if store == nil || key == "" {
		return nil
	}
	logger := m.log
	return func() tea.Msg {
		st, err := store.Load(ctx, key)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Warn("session restore failed", "err", err)
			}
			return nil
		}
		return restoreMsg{state: st}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.grid = m.grid.SetSize(msg.Width, m.gridHeight())
		return m, nil

	case updateMsg:
		m.live = true
		m.grid, _ = m.grid.Update(grid.UpdateMsg{Update: msg.update})
		return m, m.waitForUpdate()

	case restoreMsg:
		if !m.live {
			m.grid, _ = m.grid.Update(grid.UpdateMsg{Update: msg.state.Grid})
		}
		m.grid = m.grid.FocusCell(grid.Cell{Col: msg.state.FocusCol, Row: msg.state.FocusRow})
		return m, nil

	case watchMsg:
		m.onWatch(msg.event)
		return m, m.waitForWatch()

	case linkClosedMsg:
		if m.ctx.Err() == nil {
			m.setError("connection closed")
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.cfg.KeyMap.Quit) {
			return m.quit()
		}
		if m.grid.State() == grid.Browse {
			if next, cmd, ok := m.updateHostKey(msg); ok {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m Model) updateHostKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.grid = m.grid.SetSize(m.width, m.gridHeight())
	case key.Matches(msg, km.Save):
		m.save()
	case key.Matches(msg, km.Undo):
		m.history("undo", Host.Undo)
	case key.Matches(msg, km.Redo):
		m.history("redo", Host.Redo)
	case key.Matches(msg, km.Reload):
		m.reload()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *Model) save() {
	if m.cfg.Host == nil {
		m.setStatus("the serving process owns the file")
		return
	}
	if err := m.cfg.Host.Save(); err != nil {
		m.log.Error("save failed", "err", err)
		m.setError(fmt.Sprintf("save failed: %v", err))
		return
	}
	m.setStatus("saved " + m.cfg.Host.Name())
}

func (m *Model) history(name string, op func(Host) bool) {
	if m.cfg.Host == nil {
		m.setStatus(name + " is not available in an attached view")
		return
	}
	if !op(m.cfg.Host) {
		m.setStatus("nothing to " + name)
		return
	}
	m.setStatus(name)
}

func (m *Model) reload() {
	if m.cfg.Host == nil {
		m.setStatus("the serving process owns the file")
		return
	}
	changed, err := m.cfg.Host.Reload()
	switch {
	case err != nil:
		m.log.Error("reload failed", "err", err)
		m.setError(fmt.Sprintf("reload failed: %v", err))
	case changed:
		m.setStatus("reloaded from disk")
	default:
		m.setStatus("already up to date")
	}
}

func (m *Model) onWatch(evt host.Event) {
	m.log.Debug("file event", "kind", evt.Kind, "path", evt.Path)
	switch evt.Kind {
	case host.EventReloaded:
		m.setStatus("reloaded from disk")
	case host.EventMissing:
		m.setError("file deleted on disk")
	case host.EventConflict:
		m.setError("file changed on disk, unsaved edits kept (ctrl+r reloads)")
	case host.EventError:
		m.log.Error("reload failed", "err", evt.Err)
		m.setError(fmt.Sprintf("reload failed: %v", evt.Err))
	}
}

func (m Model) quit() (Model, tea.Cmd) {
	m.grid = m.grid.Blur()
	m.saveSession()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) saveSession() {
	if m.cfg.Sessions == nil || m.cfg.SessionKey == "" || !m.live {
		return
	}
	st := session.State{
		Key:  m.cfg.SessionKey,
		Grid: protocol.GridUpdate{Data: m.grid.Data(), Version: m.grid.Version()},
	}
	if c, ok := m.grid.Cursor(); ok {
		st.FocusRow, st.FocusCol = c.Row, c.Col
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.cfg.Sessions.Save(ctx, st); err != nil {
		m.log.Warn("session save failed", "err", err)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.errored = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.errored = true
}

// Status returns the last status message and whether it reports a problem.
func (m Model) Status() (string, bool) { return m.status, m.errored }

// Grid exposes the embedded grid.
func (m Model) Grid() grid.Model { return m.grid }

func (m Model) helpKeys() helpKeys {
	return helpKeys{app: m.cfg.KeyMap, grid: m.grid.KeyMap()}
}

// Run starts the program and blocks until it quits or ctx is done.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(
		New(ctx, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
