package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims s and collapses every whitespace run to one space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// HeaderName lowercases a column header and drops a trailing required marker.
func HeaderName(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(TrimAndNormalize(s))
	return strings.TrimSuffix(s, " *")
}
