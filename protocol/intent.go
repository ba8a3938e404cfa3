package protocol

// IntentKind identifies the document mutation a view requests.
type IntentKind uint8

const (
	IntentUpdateCell IntentKind = iota
	IntentAddColumn
	IntentDeleteColumn
	IntentAddRow
	IntentDeleteRow
)

// String returns the wire name of k.
func (k IntentKind) String() string {
	switch k {
	case IntentUpdateCell:
		return TypeUpdate
	case IntentAddColumn:
		return TypeAddColumn
	case IntentDeleteColumn:
		return TypeDeleteColumn
	case IntentAddRow:
		return TypeAddRow
	case IntentDeleteRow:
		return TypeDeleteRow
	default:
		return "unknown"
	}
}

// Wire type names.
const (
	TypeUpdate       = "update"
	TypeAddColumn    = "addColumn"
	TypeDeleteColumn = "deleteColumn"
	TypeAddRow       = "addRow"
	TypeDeleteRow    = "deleteRow"
)

// Intent is a typed request emitted by a view. Payload holds the struct that
// matches Kind (UpdateCell for IntentUpdateCell and so on).
type Intent struct {
	Kind    IntentKind
	Payload any
}

// UpdateCell replaces the text of one cell.
type UpdateCell struct {
	Row    int
	Column int
	Value  string
}

// AddColumn inserts an empty column before or after Column.
type AddColumn struct {
	Column   int
	IsBefore bool
}

// DeleteColumn removes Column from every line.
type DeleteColumn struct {
	Column int
}

// AddRow inserts a blank line before or after Row.
type AddRow struct {
	Row      int
	IsBefore bool
}

// DeleteRow removes line Row.
type DeleteRow struct {
	Row int
}

func NewUpdateCell(row, col int, value string) Intent {
	return Intent{Kind: IntentUpdateCell, Payload: UpdateCell{Row: row, Column: col, Value: value}}
}

func NewAddColumn(col int, isBefore bool) Intent {
	return Intent{Kind: IntentAddColumn, Payload: AddColumn{Column: col, IsBefore: isBefore}}
}

func NewDeleteColumn(col int) Intent {
	return Intent{Kind: IntentDeleteColumn, Payload: DeleteColumn{Column: col}}
}

func NewAddRow(row int, isBefore bool) Intent {
	return Intent{Kind: IntentAddRow, Payload: AddRow{Row: row, IsBefore: isBefore}}
}

func NewDeleteRow(row int) Intent {
	return Intent{Kind: IntentDeleteRow, Payload: DeleteRow{Row: row}}
}

// GridUpdate carries the full grid derived from document text at Version.
type GridUpdate struct {
	Data    [][]string
	Version uint64
}
