package wordgen

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"codeberg.org/snonux/freestyle/internal"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

var (
	ErrEmptyWord     = errors.New("no valid word generated")
	ErrNotAlphabetic = errors.New("generated word contains characters outside a-z")
	ErrTooLong       = errors.New("generated word exceeds maximum length")
	ErrTooShort      = errors.New("generated word is too short")
	ErrExcluded      = errors.New("generated word is in exclude list")
)

// Normalize trims, lowercases and strips everything outside a-z
func Normalize(raw string) string {
	return internal.NormalizeWord(raw)
}

// Validate checks a normalized candidate against the difficulty rule and
// the excluded words
func Validate(word string, difficulty wordpool.Difficulty, excluded []string) error {
	if word == "" {
		return ErrEmptyWord
	}
	if !internal.IsAlphabetic(word) {
		return fmt.Errorf("%w: %q", ErrNotAlphabetic, word)
	}

	rule := RuleFor(difficulty)
	if rule.Max > 0 && len(word) > rule.Max {
		return fmt.Errorf("%w: %q is longer than %d", ErrTooLong, word, rule.Max)
	}
	if rule.Min > 0 && len(word) < rule.Min {
		return fmt.Errorf("%w: %q is shorter than %d", ErrTooShort, word, rule.Min)
	}

	if lo.Contains(excluded, word) {
		return fmt.Errorf("%w: %q", ErrExcluded, word)
	}
	return nil
}
