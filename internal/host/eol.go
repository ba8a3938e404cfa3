package host

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidEOL = errors.New("invalid eol")

// ResolveEOL maps an eol setting to the separator used for data. "auto" and
// "" pick "\r\n" when data contains it and "\n" otherwise.
func ResolveEOL(setting string, data []byte) (string, error) {
	switch strings.ToLower(setting) {
	case "", "auto":
		if strings.Contains(string(data), "\r\n") {
			return "\r\n", nil
		}
		return "\n", nil
	case "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	default:
		return "", fmt.Errorf("%q: %w", setting, ErrInvalidEOL)
	}
}

// EOLName is the inverse of ResolveEOL for display.
func EOLName(eol string) string {
	if eol == "\r\n" {
		return "CRLF"
	}
	return "LF"
}
