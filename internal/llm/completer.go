package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoAPIKey is returned when a provider is configured without a key
	ErrNoAPIKey = errors.New("API key not configured")
	// ErrEmptyResponse is returned when the provider answered with no text
	ErrEmptyResponse = errors.New("empty response from provider")
)

// Prompt is a single-turn chat request
type Prompt struct {
	System           string
	User             string
	MaxTokens        int
	Temperature      float32
	PresencePenalty  float32
	FrequencyPenalty float32
}

// Completer defines the interface for chat completion providers
type Completer interface {
	// Complete sends the prompt and returns the trimmed reply text
	Complete(ctx context.Context, prompt Prompt) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds configuration for completion providers
type Config struct {
	Provider string // "openai" or "gemini"

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string // optional, for proxies and tests

	GeminiKey   string
	GeminiModel string

	Timeout time.Duration // per request, zero disables
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		OpenAIModel: "gpt-3.5-turbo",
		GeminiModel: "gemini-2.0-flash",
		Timeout:     30 * time.Second,
	}
}

// NewCompleter creates the completer selected by config.Provider
func NewCompleter(ctx context.Context, config *Config) (Completer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai":
		return NewOpenAICompleter(config)
	case "gemini":
		return NewGeminiCompleter(ctx, config)
	default:
		return nil, fmt.Errorf("unknown completion provider: %s", config.Provider)
	}
}

// withTimeout derives a request context when a timeout is configured
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
