package docsync

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name string
		text string
		eol  string
		want [][]string
	}{
		{name: "basic", text: "a,b\nc,d", eol: "\n", want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "empty", text: "", eol: "\n", want: [][]string{{""}}},
		{name: "ragged", text: "a,b,c\nd\n,", eol: "\n", want: [][]string{{"a", "b", "c"}, {"d"}, {"", ""}}},
		{name: "trailing eol", text: "a\n", eol: "\n", want: [][]string{{"a"}, {""}}},
		{name: "crlf keeps lone lf", text: "a\nb,c\r\nd", eol: "\r\n", want: [][]string{{"a\nb", "c"}, {"d"}}},
		{name: "quotes are plain text", text: `"a,b"`, eol: "\n", want: [][]string{{`"a`, `b"`}}},
		{name: "default eol", text: "a\nb", eol: "", want: [][]string{{"a"}, {"b"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Split(tc.text, tc.eol); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Split(%q)=%q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestSplitJoin_RoundTrip(t *testing.T) {
	texts := []string{
		"",
		",",
		"a,b\nc,d",
		"a,b\n",
		"\n\n",
		"x,,y\r\n,\r\n",
		"é,日本,😀\nlast",
		"one field only",
	}
	for _, eol := range []string{"\n", "\r\n"} {
		for _, text := range texts {
			if got := Join(Split(text, eol), eol); got != text {
				t.Fatalf("round trip %q with eol %q=%q", text, eol, got)
			}
		}
	}
}
