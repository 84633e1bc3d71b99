package wordgen

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// LengthRule bounds the length of a word. Zero means unbounded.
type LengthRule struct {
	Min int
	Max int
}

type difficultyCriteria struct {
	description string
	rule        LengthRule
	examples    []string
}

type themeCriteria struct {
	context  string
	examples map[wordpool.Difficulty][]string
}

var difficulties = map[wordpool.Difficulty]difficultyCriteria{
	wordpool.Beginner: {
		description: "simple, common, single-syllable words",
		rule:        LengthRule{Max: 6},
		examples:    []string{"cat", "dog", "run", "jump", "love", "hate"},
	},
	wordpool.Intermediate: {
		description: "two-syllable words, common vocabulary",
		rule:        LengthRule{Max: 8},
		examples:    []string{"running", "jumping", "faster", "stronger"},
	},
	wordpool.Advanced: {
		description: "complex multisyllabic words, sophisticated vocabulary",
		rule:        LengthRule{Min: 7},
		examples:    []string{"extraordinary", "magnificent", "phenomenal"},
	},
}

var themes = map[wordpool.Theme]themeCriteria{
	wordpool.ThemeStreet: {
		context: "urban life, street culture, city living",
		examples: map[wordpool.Difficulty][]string{
			wordpool.Beginner:     {"grip", "street", "hood", "real"},
			wordpool.Intermediate: {"hustle", "grinder", "player"},
			wordpool.Advanced:     {"ambitious", "tenacious", "persevere"},
		},
	},
	wordpool.ThemeLove: {
		context: "relationships, emotions, feelings",
		examples: map[wordpool.Difficulty][]string{
			wordpool.Beginner:     {"heart", "soul", "kiss", "love"},
			wordpool.Intermediate: {"passion", "caring", "loving"},
			wordpool.Advanced:     {"devotion", "cherishing", "enamored"},
		},
	},
	wordpool.ThemeBattle: {
		context: "competition, confrontation, challenge",
		examples: map[wordpool.Difficulty][]string{
			wordpool.Beginner:     {"fight", "win", "beat", "strong"},
			wordpool.Intermediate: {"warrior", "victor", "battle"},
			wordpool.Advanced:     {"dominant", "invincible", "unstoppable"},
		},
	},
	wordpool.ThemeConscious: {
		context: "social awareness, knowledge, wisdom",
		examples: map[wordpool.Difficulty][]string{
			wordpool.Beginner:     {"truth", "mind", "think", "learn"},
			wordpool.Intermediate: {"wisdom", "knowledge", "aware"},
			wordpool.Advanced:     {"enlightened", "conscious", "philosophical"},
		},
	},
	wordpool.ThemeParty: {
		context: "celebration, enjoyment, entertainment",
		examples: map[wordpool.Difficulty][]string{
			wordpool.Beginner:     {"dance", "move", "jump", "fun"},
			wordpool.Intermediate: {"grooving", "dancing", "party"},
			wordpool.Advanced:     {"celebrating", "entertaining", "energetic"},
		},
	},
}

// RuleFor returns the length rule of a difficulty
func RuleFor(difficulty wordpool.Difficulty) LengthRule {
	return difficulties[difficulty].rule
}

// Allows reports whether the word length satisfies the rule
func (r LengthRule) Allows(word string) bool {
	if r.Max > 0 && len(word) > r.Max {
		return false
	}
	if r.Min > 0 && len(word) < r.Min {
		return false
	}
	return true
}

func (r LengthRule) String() string {
	var parts []string
	if r.Min > 0 {
		parts = append(parts, fmt.Sprintf("at least %d characters", r.Min))
	}
	if r.Max > 0 {
		parts = append(parts, fmt.Sprintf("at most %d characters", r.Max))
	}
	if len(parts) == 0 {
		return "any length"
	}
	return strings.Join(parts, " and ")
}
