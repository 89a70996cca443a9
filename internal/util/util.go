// internal/util/util.go
package util

import (
	"os"
	"unicode/utf8"
)

// WriteFile writes data to a file with 0o644 permissions.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// BoolToInt converts a boolean to an integer (1 for true, 0 for false).
func BoolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
