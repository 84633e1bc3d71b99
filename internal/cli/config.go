package cli

import (
	"errors"
	"fmt"

	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/llm"
	"codeberg.org/snonux/freestyle/internal/scheduler"
	"codeberg.org/snonux/freestyle/internal/server"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// Validate checks the flag values that cannot be clamped
func (f *Flags) Validate() error {
	var errs []error

	switch f.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	case ProviderRemote:
		if f.RemoteURL == "" {
			errs = append(errs, errors.New("provider remote needs --remote-url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider: %q", f.Provider))
	}

	if _, err := wordpool.ParseTheme(f.Theme); err != nil {
		errs = append(errs, err)
	}
	if _, err := wordpool.ParseDifficulty(f.Difficulty); err != nil {
		errs = append(errs, err)
	}
	if _, err := beats.Lookup(f.Beat); err != nil {
		errs = append(errs, err)
	}
	if f.LogFormat != "console" && f.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format: %q", f.LogFormat))
	}
	if f.WordInterval < 0 || f.LLMTimeout < 0 || f.BreakerCooldown < 0 || f.SessionTimeout < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}

	return errors.Join(errs...)
}

// UsesLLM reports whether words come from an LLM provider
func (f *Flags) UsesLLM() bool {
	return f.Provider == ProviderOpenAI || f.Provider == ProviderGemini
}

// LLMConfig returns the completer configuration
func (f *Flags) LLMConfig() *llm.Config {
	return &llm.Config{
		Provider:      f.Provider,
		OpenAIKey:     GetOpenAIKey(),
		OpenAIModel:   f.OpenAIModel,
		OpenAIBaseURL: f.OpenAIBaseURL,
		GeminiKey:     GetGeminiKey(),
		GeminiModel:   f.GeminiModel,
		Timeout:       f.LLMTimeout,
	}
}

// BreakerSettings returns the circuit breaker settings
func (f *Flags) BreakerSettings() llm.BreakerSettings {
	return llm.BreakerSettings{
		MaxFailures: uint32(max(1, f.BreakerFailures)),
		Cooldown:    f.BreakerCooldown,
	}
}

// SchedulerConfig returns the session timing and start settings
func (f *Flags) SchedulerConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()
	if f.WordInterval > 0 {
		cfg.WordInterval = f.WordInterval
		// keep the countdown in whole seconds of the interval
		cfg.CountdownStart = max(1, int(f.WordInterval/cfg.CountdownTick))
	}
	if f.MaxFailures > 0 {
		cfg.MaxFailures = f.MaxFailures
	}
	if theme, err := wordpool.ParseTheme(f.Theme); err == nil {
		cfg.Theme = theme
	}
	if difficulty, err := wordpool.ParseDifficulty(f.Difficulty); err == nil {
		cfg.Difficulty = difficulty
	}
	return cfg
}

// ServerConfig returns the HTTP server configuration
func (f *Flags) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Addr = f.Addr
	cfg.Production = f.Production
	if f.RateLimitRPS > 0 {
		cfg.RateLimitRPS = f.RateLimitRPS
	}
	if f.RateLimitBurst > 0 {
		cfg.RateLimitBurst = f.RateLimitBurst
	}
	if f.SessionTimeout > 0 {
		cfg.SessionTimeout = f.SessionTimeout
	}
	if beat, err := beats.Lookup(f.Beat); err == nil {
		cfg.DefaultBeat = beat.ID
	}
	cfg.Scheduler = f.SchedulerConfig()
	return cfg
}
