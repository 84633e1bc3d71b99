package wordpool

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"sort"

	"github.com/samber/lo"

	"codeberg.org/snonux/freestyle/internal"
)

// ErrEmptyPool is returned when a (theme, difficulty) pair has no words
var ErrEmptyPool = errors.New("no words available")

// WordSet is a set of normalized words
type WordSet map[string]struct{}

// NewWordSet creates a set holding the given words
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts a word into the set
func (s WordSet) Add(word string) {
	s[word] = struct{}{}
}

// Has reports whether the word is in the set
func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of words in the set
func (s WordSet) Len() int {
	return len(s)
}

// Clear removes all words
func (s WordSet) Clear() {
	clear(s)
}

// Clone returns an independent copy of the set
func (s WordSet) Clone() WordSet {
	c := make(WordSet, len(s))
	maps.Copy(c, s)
	return c
}

// Slice returns the words in sorted order
func (s WordSet) Slice() []string {
	words := lo.Keys(s)
	sort.Strings(words)
	return words
}

// Pick is the outcome of sampling the pool
type Pick struct {
	Word string
	// Reset is set when every word of the list was excluded and the word
	// was drawn from the full list. Callers must clear their excluded set.
	Reset bool
}

// Pool is a read-only mapping from (theme, difficulty) to candidate words
type Pool struct {
	lists map[Theme]map[Difficulty][]string
}

// Default returns the bundled word bank
func Default() *Pool {
	return New(defaultWords)
}

// New creates a pool from the given lists. Words are normalized and
// duplicates within a list are dropped, keeping the first occurrence.
func New(lists map[Theme]map[Difficulty][]string) *Pool {
	p := &Pool{lists: make(map[Theme]map[Difficulty][]string, len(lists))}
	for theme, byDifficulty := range lists {
		p.lists[theme] = make(map[Difficulty][]string, len(byDifficulty))
		for difficulty, words := range byDifficulty {
			p.lists[theme][difficulty] = cleanList(words)
		}
	}
	return p
}

func cleanList(words []string) []string {
	normalized := lo.Map(words, func(w string, _ int) string {
		return internal.NormalizeWord(w)
	})
	return lo.Uniq(lo.Compact(normalized))
}

// With returns a copy of the pool where the given lists replace the
// existing ones. Unknown themes or difficulties are rejected.
func (p *Pool) With(overrides map[Theme]map[Difficulty][]string) (*Pool, error) {
	merged := make(map[Theme]map[Difficulty][]string, len(p.lists))
	for theme, byDifficulty := range p.lists {
		merged[theme] = make(map[Difficulty][]string, len(byDifficulty))
		for difficulty, words := range byDifficulty {
			merged[theme][difficulty] = words
		}
	}

	for theme, byDifficulty := range overrides {
		if !theme.Valid() {
			return nil, fmt.Errorf("unknown theme in word list: %q", theme)
		}
		if merged[theme] == nil {
			merged[theme] = make(map[Difficulty][]string)
		}
		for difficulty, words := range byDifficulty {
			if !difficulty.Valid() {
				return nil, fmt.Errorf("unknown difficulty in word list: %q", difficulty)
			}
			merged[theme][difficulty] = words
		}
	}

	return New(merged), nil
}

// Words returns a copy of the list for the pair
func (p *Pool) Words(theme Theme, difficulty Difficulty) []string {
	return append([]string(nil), p.lists[theme][difficulty]...)
}

// Len returns the number of words for the pair
func (p *Pool) Len(theme Theme, difficulty Difficulty) int {
	return len(p.lists[theme][difficulty])
}

// Validate checks that every theme and difficulty offered to users has
// at least one word
func (p *Pool) Validate() error {
	for _, theme := range Themes() {
		for _, difficulty := range Difficulties() {
			if p.Len(theme, difficulty) == 0 {
				return fmt.Errorf("%w for %s/%s", ErrEmptyPool, theme, difficulty)
			}
		}
	}
	return nil
}

// Pick draws a word uniformly at random from the list for the pair,
// skipping excluded words. When every word is excluded it draws from the
// full list and reports Reset.
func (p *Pool) Pick(theme Theme, difficulty Difficulty, excluded WordSet, rng *rand.Rand) (Pick, error) {
	words := p.lists[theme][difficulty]
	if len(words) == 0 {
		return Pick{}, fmt.Errorf("%w for %s/%s", ErrEmptyPool, theme, difficulty)
	}

	available := lo.Filter(words, func(w string, _ int) bool {
		return !excluded.Has(w)
	})
	if len(available) == 0 {
		return Pick{Word: words[rng.IntN(len(words))], Reset: true}, nil
	}

	return Pick{Word: available[rng.IntN(len(available))]}, nil
}
