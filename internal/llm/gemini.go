package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiCompleter implements Completer using Google's Gemini API
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiCompleter creates a new Gemini completer
func NewGeminiCompleter(ctx context.Context, config *Config) (*GeminiCompleter, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini %w", ErrNoAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiCompleter{
		client:  client,
		model:   model,
		timeout: config.Timeout,
	}, nil
}

// Complete sends the prompt to GenerateContent
func (c *GeminiCompleter) Complete(ctx context.Context, prompt Prompt) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(prompt.Temperature),
		MaxOutputTokens: int32(prompt.MaxTokens),
	}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.PresencePenalty != 0 {
		config.PresencePenalty = genai.Ptr(prompt.PresencePenalty)
	}
	if prompt.FrequencyPenalty != 0 {
		config.FrequencyPenalty = genai.Ptr(prompt.FrequencyPenalty)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}

// Name returns the provider name
func (c *GeminiCompleter) Name() string {
	return "gemini"
}
