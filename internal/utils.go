package internal

import (
	"strings"
)

// Version is the freestyle release version
const Version = "0.3.0"

// NormalizeWord prepares a word for comparison: trims, lowercases and
// drops every rune outside a-z
func NormalizeWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isLowerLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsAlphabetic reports whether s is non-empty and consists of a-z only
func IsAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isLowerLetter(r) {
			return false
		}
	}
	return true
}

// isLowerLetter checks if a rune is an ASCII lowercase letter
func isLowerLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}
