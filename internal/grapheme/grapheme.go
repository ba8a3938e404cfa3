package grapheme

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// clusters returns the grapheme clusters of text in visual order.
func clusters(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// ClusterWidth returns the terminal cell width of a single grapheme cluster.
func ClusterWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w < 0 {
		w = 0
	}
	if w == 0 {
		if fallback := uniseg.StringWidth(cluster); fallback > w {
			w = fallback
		}
	}
	return w
}

// Width returns the terminal cell width of text, summed per cluster.
func Width(text string) int {
	w := 0
	for _, c := range clusters(text) {
		w += ClusterWidth(c)
	}
	return w
}

// Truncate cuts text to at most width cells without splitting a cluster.
// When text is cut and tail fits, tail replaces the last cells.
func Truncate(text string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if Width(text) <= width {
		return text
	}

	tw := Width(tail)
	if tw > width {
		tail, tw = "", 0
	}
	limit := width - tw

	var sb strings.Builder
	used := 0
	for _, c := range clusters(text) {
		cw := ClusterWidth(c)
		if used+cw > limit {
			break
		}
		sb.WriteString(c)
		used += cw
	}
	sb.WriteString(tail)
	return sb.String()
}

// Sanitize makes text safe to print inside one table cell: tabs become a
// space and other control characters are dropped. Invalid UTF-8 shows as
// U+FFFD.
func Sanitize(text string) string {
	if utf8.ValidString(text) && strings.IndexFunc(text, unicode.IsControl) < 0 {
		return text
	}

	var sb strings.Builder
	for _, r := range text {
		switch {
		case r == '\t':
			sb.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
