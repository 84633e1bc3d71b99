package llm

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "openai" {
		t.Errorf("Expected default provider 'openai', got '%s'", config.Provider)
	}
	if config.OpenAIModel != "gpt-3.5-turbo" {
		t.Errorf("Expected default OpenAI model 'gpt-3.5-turbo', got '%s'", config.OpenAIModel)
	}
	if config.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("Expected default Gemini model 'gemini-2.0-flash', got '%s'", config.GeminiModel)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", config.Timeout)
	}
}

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantName string
		wantErr  bool
	}{
		{
			name:     "openai",
			config:   &Config{Provider: "openai", OpenAIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:    "openai without key",
			config:  &Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "gemini without key",
			config:  &Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "markov", OpenAIKey: "test-key"},
			wantErr: true,
		},
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: true, // default config carries no key
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCompleter(context.Background(), tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCompleter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", c.Name(), tt.wantName)
			}
		})
	}
}
