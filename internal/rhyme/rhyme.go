package rhyme

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"codeberg.org/snonux/freestyle/internal"
	"codeberg.org/snonux/freestyle/internal/llm"
	"codeberg.org/snonux/freestyle/internal/remote"
)

// MaxRhymes is the most suggestions returned for one word
const MaxRhymes = 5

const rhymeSystemPrompt = "You are a rhyming words generator. Generate 5 words that rhyme with the given word. " +
	"Return only the rhyming words separated by commas, no explanations."

// Rhymer returns rhymes for a word
type Rhymer interface {
	Rhymes(ctx context.Context, word string) ([]string, error)
}

// ParseRhymes splits a comma separated reply into at most MaxRhymes
// normalized, non-empty, distinct words
func ParseRhymes(reply string) []string {
	words := lo.Map(strings.Split(reply, ","), func(w string, _ int) string {
		return internal.NormalizeWord(w)
	})
	words = lo.Uniq(lo.Compact(words))
	if len(words) > MaxRhymes {
		words = words[:MaxRhymes]
	}
	return words
}

// LLMRhymer asks a language model for rhymes
type LLMRhymer struct {
	completer llm.Completer
}

// NewLLMRhymer creates a rhymer backed by the given completer
func NewLLMRhymer(completer llm.Completer) *LLMRhymer {
	return &LLMRhymer{completer: completer}
}

// Rhymes asks for five comma separated rhymes
func (r *LLMRhymer) Rhymes(ctx context.Context, word string) ([]string, error) {
	word = internal.NormalizeWord(word)
	if word == "" {
		return nil, fmt.Errorf("word is required")
	}

	reply, err := r.completer.Complete(ctx, llm.Prompt{
		System:      rhymeSystemPrompt,
		User:        fmt.Sprintf("Generate 5 words that rhyme with %q. Return only the words, separated by commas.", word),
		MaxTokens:   50,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate rhyming words: %w", err)
	}

	return lo.Without(ParseRhymes(reply), word), nil
}

// Request is the body of a rhyme request
type Request struct {
	Word string `json:"word"`
}

// Response is the body of a successful rhyme response
type Response struct {
	Rhymes []string `json:"rhymes"`
}

// RemoteRhymer calls the rhyme endpoint of a freestyle server
type RemoteRhymer struct {
	client *remote.Client
}

// NewRemoteRhymer creates a rhymer for the service at client's base URL
func NewRemoteRhymer(client *remote.Client) *RemoteRhymer {
	return &RemoteRhymer{client: client}
}

// Rhymes posts the word and cleans the returned list
func (r *RemoteRhymer) Rhymes(ctx context.Context, word string) ([]string, error) {
	var resp Response
	if err := r.client.PostJSON(ctx, "/api/rhymes", Request{Word: word}, &resp); err != nil {
		return nil, fmt.Errorf("failed to generate rhyming words: %w", err)
	}
	return ParseRhymes(strings.Join(resp.Rhymes, ",")), nil
}
