package protocol

import (
	"encoding/json"
	"fmt"
)

// wireIntent is the flat JSON shape of an intent. Pointer fields tell a
// missing field apart from a zero value.
type wireIntent struct {
	Type        string  `json:"type"`
	RowIndex    *int    `json:"rowIndex,omitempty"`
	ColumnIndex *int    `json:"columnIndex,omitempty"`
	Value       *string `json:"value,omitempty"`
	IsBefore    *bool   `json:"isBefore,omitempty"`
}

type wireGridUpdate struct {
	Type    string      `json:"type"`
	Data    *[][]string `json:"data"`
	Version uint64      `json:"version,omitempty"`
}

// EncodeIntent returns the wire form of in.
func EncodeIntent(in Intent) ([]byte, error) {
	var w wireIntent
	switch p := in.Payload.(type) {
	case UpdateCell:
		if in.Kind != IntentUpdateCell {
			return nil, mismatch(in)
		}
		w = wireIntent{Type: TypeUpdate, RowIndex: &p.Row, ColumnIndex: &p.Column, Value: &p.Value}
	case AddColumn:
		if in.Kind != IntentAddColumn {
			return nil, mismatch(in)
		}
		w = wireIntent{Type: TypeAddColumn, ColumnIndex: &p.Column, IsBefore: &p.IsBefore}
	case DeleteColumn:
		if in.Kind != IntentDeleteColumn {
			return nil, mismatch(in)
		}
		w = wireIntent{Type: TypeDeleteColumn, ColumnIndex: &p.Column}
	case AddRow:
		if in.Kind != IntentAddRow {
			return nil, mismatch(in)
		}
		w = wireIntent{Type: TypeAddRow, RowIndex: &p.Row, IsBefore: &p.IsBefore}
	case DeleteRow:
		if in.Kind != IntentDeleteRow {
			return nil, mismatch(in)
		}
		w = wireIntent{Type: TypeDeleteRow, RowIndex: &p.Row}
	default:
		return nil, mismatch(in)
	}
	return json.Marshal(w)
}

func mismatch(in Intent) error {
	return fmt.Errorf("intent %s with payload %T: %w", in.Kind, in.Payload, ErrMalformed)
}

// DecodeIntent parses one view-to-synchronizer message.
func DecodeIntent(data []byte) (Intent, error) {
	var w wireIntent
	if err := json.Unmarshal(data, &w); err != nil {
		return Intent{}, fmt.Errorf("decode intent: %v: %w", err, ErrMalformed)
	}

	switch w.Type {
	case TypeUpdate:
		if w.RowIndex == nil || w.ColumnIndex == nil || w.Value == nil {
			return Intent{}, missing(w.Type)
		}
		return NewUpdateCell(*w.RowIndex, *w.ColumnIndex, *w.Value), nil
	case TypeAddColumn:
		if w.ColumnIndex == nil {
			return Intent{}, missing(w.Type)
		}
		return NewAddColumn(*w.ColumnIndex, w.IsBefore != nil && *w.IsBefore), nil
	case TypeDeleteColumn:
		if w.ColumnIndex == nil {
			return Intent{}, missing(w.Type)
		}
		return NewDeleteColumn(*w.ColumnIndex), nil
	case TypeAddRow:
		if w.RowIndex == nil {
			return Intent{}, missing(w.Type)
		}
		return NewAddRow(*w.RowIndex, w.IsBefore != nil && *w.IsBefore), nil
	case TypeDeleteRow:
		if w.RowIndex == nil {
			return Intent{}, missing(w.Type)
		}
		return NewDeleteRow(*w.RowIndex), nil
	default:
		return Intent{}, fmt.Errorf("decode intent %q: %w", w.Type, ErrUnknownType)
	}
}

func missing(typ string) error {
	return fmt.Errorf("decode %s: missing field: %w", typ, ErrMalformed)
}

// EncodeGridUpdate returns the wire form of u. A nil grid encodes as [].
func EncodeGridUpdate(u GridUpdate) ([]byte, error) {
	data := u.Data
	if data == nil {
		data = [][]string{}
	}
	return json.Marshal(wireGridUpdate{Type: TypeUpdate, Data: &data, Version: u.Version})
}

// DecodeGridUpdate parses one synchronizer-to-view message.
func DecodeGridUpdate(data []byte) (GridUpdate, error) {
	var w wireGridUpdate
	if err := json.Unmarshal(data, &w); err != nil {
		return GridUpdate{}, fmt.Errorf("decode update: %v: %w", err, ErrMalformed)
	}
	if w.Type != TypeUpdate {
		return GridUpdate{}, fmt.Errorf("decode update %q: %w", w.Type, ErrUnknownType)
	}
	if w.Data == nil {
		return GridUpdate{}, missing(w.Type)
	}
	return GridUpdate{Data: *w.Data, Version: w.Version}, nil
}
