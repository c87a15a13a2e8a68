package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims whitespace, drops control characters, and caps the
// result at maxLen runes. A maxLen of zero means no cap. Free-text inputs
// from unauthenticated callers go through here before they are persisted.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxLen {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:maxLen]))
}
