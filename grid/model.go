package grid

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/csvi/protocol"
)

// State is the grid interaction mode.
type State uint8

const (
	Browse State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "browse"
}

// Cell addresses one grid cell by 0-based column and row.
type Cell struct {
	Col int
	Row int
}

// UpdateMsg delivers a synchronizer grid update to the Model.
type UpdateMsg struct {
	Update protocol.GridUpdate
}

type clickState struct {
	at   time.Time
	cell Cell
	ok   bool
}

// Model is a Bubble Tea component that renders a grid and turns user
// actions into intents.
type Model struct {
	cfg Config

	data    [][]string
	version uint64
	rows    int
	cols    int

	focus Cell
	state State
	input textinput.Model
	// Input value right after opening on the cell's own text. The input
	// drops bytes it cannot show, so closing it unchanged must not write.
	pristine    string
	hasPristine bool

	focused bool

	width, height int
	rowOffset     int
	colOffset     int

	lastClick clickState
}

func New(cfg Config) Model {
	cfg = normalizeConfig(cfg)

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = ""
	// Paste goes through Config.Clipboard.
	in.KeyMap.Paste = key.NewBinding(key.WithDisabled())

	return Model{
		cfg:     cfg,
		input:   in,
		focused: true,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// SetSize sets the outer size of the rendered grid. A zero dimension
// renders every row or column.
func (m Model) SetSize(width, height int) Model {
	m.width = max(width, 0)
	m.height = max(height, 0)
	m.followFocus()
	return m
}

func (m Model) Size() (width, height int) { return m.width, m.height }

// SetData replaces the whole grid. Empty data, or data whose first row is
// empty, renders nothing. Focus is clamped to the new grid; an open editor
// survives only while its cell still exists.
func (m Model) SetData(data [][]string) Model {
	m.data = data
	m.rows, m.cols = 0, 0
	if len(data) > 0 && len(data[0]) > 0 {
		m.rows = len(data)
		m.cols = len(data[0])
	}

	prev := m.focus
	m = m.FocusCell(prev)
	if m.state == Editing && (m.focus != prev || !m.HasData()) {
		m = m.closeEditor(false)
	}
	m.followFocus()
	return m
}

// Data returns the grid last given to SetData. It must not be modified.
func (m Model) Data() [][]string { return m.data }

// Version returns the document version of the last UpdateMsg.
func (m Model) Version() uint64 { return m.version }

// HasData reports whether the grid has at least one cell to show.
func (m Model) HasData() bool { return m.rows > 0 && m.cols > 0 }

// Dims returns the number of rows and of columns (taken from row 0).
func (m Model) Dims() (rows, cols int) { return m.rows, m.cols }

// FocusCell moves the focus marker to c, clamped into the grid. On a blank
// grid focus stays at (0,0) and no marker is shown.
func (m Model) FocusCell(c Cell) Model {
	if !m.HasData() {
		m.focus = Cell{}
		return m
	}
	m.focus = Cell{
		Col: clampInt(c.Col, 0, m.cols-1),
		Row: clampInt(c.Row, 0, m.rows-1),
	}
	m.followFocus()
	return m
}

// Cursor returns the focused cell; ok is false when nothing is rendered.
func (m Model) Cursor() (Cell, bool) {
	if !m.HasData() {
		return Cell{}, false
	}
	return m.focus, true
}

// Value returns the text of c, or "" for cells a short row does not have.
func (m Model) Value(c Cell) string {
	if c.Row < 0 || c.Row >= len(m.data) {
		return ""
	}
	row := m.data[c.Row]
	if c.Col < 0 || c.Col >= len(row) {
		return ""
	}
	return row[c.Col]
}

func (m Model) State() State { return m.state }

// EditValue returns the editor's current text while Editing.
func (m Model) EditValue() string {
	if m.state != Editing {
		return ""
	}
	return m.input.Value()
}

func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes input focus. An open editor is saved, as when focus leaves
// the input.
func (m Model) Blur() Model {
	if m.state == Editing {
		m = m.closeEditor(true)
	}
	m.focused = false
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) KeyMap() KeyMap { return m.cfg.KeyMap }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateMsg:
		m.version = msg.Update.Version
		return m.SetData(msg.Update.Data), nil
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.FocusMsg:
		return m.Focus(), nil
	case tea.BlurMsg:
		return m.Blur(), nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	default:
		if m.state == Editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m Model) emit(in protocol.Intent) {
	if m.cfg.Emit != nil {
		m.cfg.Emit(in)
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
