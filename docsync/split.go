package docsync

import "strings"

// Separator is the field delimiter. Fields are never quoted or escaped.
const Separator = ","

// Split splits text into lines on eol, then every line into fields.
func Split(text, eol string) [][]string {
	if eol == "" {
		eol = "\n"
	}
	lines := strings.Split(text, eol)
	out := make([][]string, len(lines))
	for i, line := range lines {
		out[i] = splitFields(line)
	}
	return out
}

// Join is the inverse of Split.
func Join(grid [][]string, eol string) string {
	if eol == "" {
		eol = "\n"
	}
	lines := make([]string, len(grid))
	for i, fields := range grid {
		lines[i] = joinFields(fields)
	}
	return strings.Join(lines, eol)
}

func splitFields(line string) []string {
	return strings.Split(line, Separator)
}

func joinFields(fields []string) string {
	return strings.Join(fields, Separator)
}
