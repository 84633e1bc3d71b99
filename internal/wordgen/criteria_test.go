package wordgen

import (
	"testing"

	"codeberg.org/snonux/freestyle/internal/wordpool"
)

func TestRuleFor(t *testing.T) {
	tests := []struct {
		difficulty wordpool.Difficulty
		want       LengthRule
	}{
		{wordpool.Beginner, LengthRule{Max: 6}},
		{wordpool.Intermediate, LengthRule{Max: 8}},
		{wordpool.Advanced, LengthRule{Min: 7}},
		{wordpool.Difficulty("expert"), LengthRule{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			if got := RuleFor(tt.difficulty); got != tt.want {
				t.Errorf("RuleFor(%s) = %+v, want %+v", tt.difficulty, got, tt.want)
			}
		})
	}
}

func TestLengthRule_Allows(t *testing.T) {
	tests := []struct {
		rule LengthRule
		word string
		want bool
	}{
		{LengthRule{Max: 6}, "street", true},
		{LengthRule{Max: 6}, "streets", false},
		{LengthRule{Min: 7}, "fantasy", true},
		{LengthRule{Min: 7}, "fiction", true},
		{LengthRule{Min: 7}, "amazed", false},
		{LengthRule{}, "a", true},
	}

	for _, tt := range tests {
		if got := tt.rule.Allows(tt.word); got != tt.want {
			t.Errorf("%v.Allows(%q) = %v, want %v", tt.rule, tt.word, got, tt.want)
		}
	}
}

func TestLengthRule_String(t *testing.T) {
	tests := []struct {
		rule LengthRule
		want string
	}{
		{LengthRule{Max: 6}, "at most 6 characters"},
		{LengthRule{Min: 7}, "at least 7 characters"},
		{LengthRule{Min: 2, Max: 4}, "at least 2 characters and at most 4 characters"},
		{LengthRule{}, "any length"},
	}

	for _, tt := range tests {
		if got := tt.rule.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCriteriaCoverEveryPair(t *testing.T) {
	for _, theme := range wordpool.Themes() {
		th, ok := themes[theme]
		if !ok {
			t.Fatalf("missing criteria for theme %s", theme)
		}
		for _, difficulty := range wordpool.Difficulties() {
			if _, ok := difficulties[difficulty]; !ok {
				t.Fatalf("missing criteria for difficulty %s", difficulty)
			}
			if len(th.examples[difficulty]) == 0 {
				t.Errorf("no theme examples for %s/%s", theme, difficulty)
			}
		}
	}
}
