package wordpool

import (
	"fmt"
	"strings"
)

// Theme is a thematic category constraining word selection
type Theme string

const (
	ThemeStreet    Theme = "street"
	ThemeLove      Theme = "love"
	ThemeBattle    Theme = "battle"
	ThemeConscious Theme = "conscious"
	ThemeParty     Theme = "party"
)

// Difficulty is a complexity tier constraining word length and complexity
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// DefaultTheme and DefaultDifficulty are used for fresh sessions
const (
	DefaultTheme      = ThemeStreet
	DefaultDifficulty = Intermediate
)

var themeLabels = map[Theme]string{
	ThemeStreet:    "Street Culture",
	ThemeLove:      "Love & Relationships",
	ThemeBattle:    "Battle Rap",
	ThemeConscious: "Conscious Rap",
	ThemeParty:     "Party Vibes",
}

var difficultyLabels = map[Difficulty]string{
	Beginner:     "Simple, common words",
	Intermediate: "Moderate complexity",
	Advanced:     "Complex, multisyllabic words",
}

// Themes returns all themes in display order
func Themes() []Theme {
	return []Theme{ThemeStreet, ThemeLove, ThemeBattle, ThemeConscious, ThemeParty}
}

// Difficulties returns all difficulties from easiest to hardest
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// Label returns the display name of the theme
func (t Theme) Label() string {
	return themeLabels[t]
}

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	_, ok := themeLabels[t]
	return ok
}

// Label returns the short description of the difficulty
func (d Difficulty) Label() string {
	return difficultyLabels[d]
}

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	_, ok := difficultyLabels[d]
	return ok
}

// ParseTheme converts user input into a Theme
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme: %q", s)
	}
	return t, nil
}

// ParseDifficulty converts user input into a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
	return d, nil
}
