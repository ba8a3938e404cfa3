package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodeIntent_WireShape(t *testing.T) {
	cases := []struct {
		in   Intent
		want string
	}{
		{in: NewUpdateCell(1, 2, "x,y"), want: `{"type":"update","rowIndex":1,"columnIndex":2,"value":"x,y"}`},
		{in: NewUpdateCell(0, 0, ""), want: `{"type":"update","rowIndex":0,"columnIndex":0,"value":""}`},
		{in: NewAddColumn(3, true), want: `{"type":"addColumn","columnIndex":3,"isBefore":true}`},
		{in: NewDeleteColumn(0), want: `{"type":"deleteColumn","columnIndex":0}`},
		{in: NewAddRow(1, false), want: `{"type":"addRow","rowIndex":1,"isBefore":false}`},
		{in: NewDeleteRow(4), want: `{"type":"deleteRow","rowIndex":4}`},
	}

	for _, tc := range cases {
		got, err := EncodeIntent(tc.in)
		if err != nil {
			t.Fatalf("encode %v: %v", tc.in.Kind, err)
		}
		if string(got) != tc.want {
			t.Fatalf("encode %v=%s, want %s", tc.in.Kind, got, tc.want)
		}

		back, err := DecodeIntent(got)
		if err != nil {
			t.Fatalf("decode %s: %v", got, err)
		}
		if !reflect.DeepEqual(back, tc.in) {
			t.Fatalf("decode %s=%#v, want %#v", got, back, tc.in)
		}
	}
}

func TestEncodeIntent_KindPayloadMismatch(t *testing.T) {
	cases := []Intent{
		{Kind: IntentAddRow, Payload: DeleteRow{Row: 1}},
		{Kind: IntentUpdateCell, Payload: nil},
		{Kind: IntentDeleteColumn, Payload: "x"},
	}
	for _, in := range cases {
		if _, err := EncodeIntent(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("encode %#v err=%v, want ErrMalformed", in, err)
		}
	}
}

func TestDecodeIntent_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{name: "not json", in: `{`, want: ErrMalformed},
		{name: "unknown type", in: `{"type":"rename"}`, want: ErrUnknownType},
		{name: "no type", in: `{}`, want: ErrUnknownType},
		{name: "update without value", in: `{"type":"update","rowIndex":0,"columnIndex":0}`, want: ErrMalformed},
		{name: "deleteRow without row", in: `{"type":"deleteRow"}`, want: ErrMalformed},
		{name: "wrong field type", in: `{"type":"deleteRow","rowIndex":"1"}`, want: ErrMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeIntent([]byte(tc.in)); !errors.Is(err, tc.want) {
				t.Fatalf("err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestDecodeIntent_IsBeforeDefaultsFalse(t *testing.T) {
	in, err := DecodeIntent([]byte(`{"type":"addColumn","columnIndex":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, want := in, NewAddColumn(2, false); !reflect.DeepEqual(got, want) {
		t.Fatalf("intent=%#v, want %#v", got, want)
	}
}

func TestGridUpdate_RoundTrip(t *testing.T) {
	u := GridUpdate{Data: [][]string{{"a", "b"}, {"c"}}, Version: 7}
	raw, err := EncodeGridUpdate(u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := string(raw), `{"type":"update","data":[["a","b"],["c"]],"version":7}`; got != want {
		t.Fatalf("encode=%s, want %s", got, want)
	}
	back, err := DecodeGridUpdate(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(back, u) {
		t.Fatalf("decode=%#v, want %#v", back, u)
	}
}

func TestGridUpdate_EmptyAndErrors(t *testing.T) {
	raw, err := EncodeGridUpdate(GridUpdate{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := string(raw), `{"type":"update","data":[]}`; got != want {
		t.Fatalf("encode=%s, want %s", got, want)
	}

	if _, err := DecodeGridUpdate([]byte(`{"type":"update"}`)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("missing data err=%v, want ErrMalformed", err)
	}
	if _, err := DecodeGridUpdate([]byte(`{"type":"addRow","data":[]}`)); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("wrong type err=%v, want ErrUnknownType", err)
	}
}

func TestIntentKind_String(t *testing.T) {
	if got := IntentDeleteColumn.String(); got != "deleteColumn" {
		t.Fatalf("kind=%q, want %q", got, "deleteColumn")
	}
	if got := IntentKind(42).String(); got != "unknown" {
		t.Fatalf("kind=%q, want %q", got, "unknown")
	}
}
