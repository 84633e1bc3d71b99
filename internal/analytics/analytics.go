package analytics

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"codeberg.org/snonux/freestyle/internal"
)

// ErrNegativeDuration is returned for takes with a negative duration
var ErrNegativeDuration = errors.New("duration must not be negative")

// Take is one recorded freestyle attempt
type Take struct {
	Duration   float64  `json:"duration"` // seconds
	Transcript string   `json:"transcript"`
	Prompts    []string `json:"prompts,omitempty"` // words shown during the take
}

// Report holds the statistics of a take
type Report struct {
	Duration       float64   `json:"duration"`
	WordsPerMinute int       `json:"wordsPerMinute"`
	UniqueWords    int       `json:"uniqueWords"`
	TotalWords     int       `json:"totalWords"`
	PromptsUsed    []string  `json:"promptsUsed"`
	Timestamp      time.Time `json:"timestamp"`
}

// Analyze counts words in the transcript. Words are compared
// case-insensitively with punctuation removed.
func Analyze(take Take, now time.Time) (Report, error) {
	if take.Duration < 0 || math.IsNaN(take.Duration) {
		return Report{}, ErrNegativeDuration
	}

	words := Tokenize(take.Transcript)
	unique := lo.Uniq(words)

	wpm := 0
	if take.Duration > 0 {
		wpm = int(math.Round(float64(len(words)) / take.Duration * 60))
	}

	prompts := lo.Uniq(lo.Compact(lo.Map(take.Prompts, func(p string, _ int) string {
		return internal.NormalizeWord(p)
	})))

	return Report{
		Duration:       take.Duration,
		WordsPerMinute: wpm,
		UniqueWords:    len(unique),
		TotalWords:     len(words),
		PromptsUsed:    lo.Intersect(prompts, unique),
		Timestamp:      now,
	}, nil
}

// Tokenize splits a transcript into normalized words
func Tokenize(transcript string) []string {
	return lo.Compact(lo.Map(strings.Fields(transcript), func(w string, _ int) string {
		return internal.NormalizeWord(w)
	}))
}
