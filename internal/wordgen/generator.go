package wordgen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/llm"
	"codeberg.org/snonux/freestyle/internal/remote"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// Request asks for one new word
type Request struct {
	Theme      wordpool.Theme      `json:"theme"`
	Difficulty wordpool.Difficulty `json:"difficulty"`
	Exclude    []string            `json:"excludeWords"`
}

// Check rejects unknown themes and difficulties
func (r Request) Check() error {
	if !r.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty level: %q", r.Difficulty)
	}
	if !r.Theme.Valid() {
		return fmt.Errorf("invalid theme: %q", r.Theme)
	}
	return nil
}

// Generator produces one validated word per call
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// LLMGenerator asks a language model for a word
type LLMGenerator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewLLMGenerator creates a generator backed by the given completer
func NewLLMGenerator(completer llm.Completer, logger *zap.Logger) *LLMGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMGenerator{completer: completer, logger: logger}
}

// Generate requests, normalizes and validates a word
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Check(); err != nil {
		return "", err
	}

	raw, err := g.completer.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return "", fmt.Errorf("word generation failed: %w", err)
	}

	word := Normalize(raw)
	if err := Validate(word, req.Difficulty, req.Exclude); err != nil {
		g.logger.Debug("Rejected generated word",
			zap.String("raw", raw),
			zap.String("theme", string(req.Theme)),
			zap.String("difficulty", string(req.Difficulty)),
			zap.Error(err))
		return "", err
	}

	return word, nil
}

// Name returns the generator name
func (g *LLMGenerator) Name() string {
	return "llm:" + g.completer.Name()
}

// GenerateResponse is the body of a successful generation response
type GenerateResponse struct {
	Words []string `json:"words"`
}

// RemoteGenerator calls the word generation endpoint of a freestyle server
type RemoteGenerator struct {
	client *remote.Client
}

// NewRemoteGenerator creates a generator for the service at client's base URL
func NewRemoteGenerator(client *remote.Client) *RemoteGenerator {
	return &RemoteGenerator{client: client}
}

// Generate posts the request and validates the returned word locally
func (g *RemoteGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Check(); err != nil {
		return "", err
	}
	if req.Exclude == nil {
		req.Exclude = []string{}
	}

	var resp GenerateResponse
	if err := g.client.PostJSON(ctx, "/api/generate-words", req, &resp); err != nil {
		return "", fmt.Errorf("word generation failed: %w", err)
	}
	if len(resp.Words) == 0 {
		return "", fmt.Errorf("word generation failed: %w", ErrEmptyWord)
	}

	word := Normalize(resp.Words[0])
	if err := Validate(word, req.Difficulty, req.Exclude); err != nil {
		return "", err
	}
	return word, nil
}

// Name returns the generator name
func (g *RemoteGenerator) Name() string {
	return "remote"
}

// IsRejection reports whether err means a word came back but failed validation
func IsRejection(err error) bool {
	return errors.Is(err, ErrEmptyWord) ||
		errors.Is(err, ErrNotAlphabetic) ||
		errors.Is(err, ErrTooLong) ||
		errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrExcluded)
}
