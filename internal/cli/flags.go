package cli

import (
	"time"

	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/llm"
	"codeberg.org/snonux/freestyle/internal/scheduler"
	"codeberg.org/snonux/freestyle/internal/server"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// Word sources selectable with --provider
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderRemote = "remote"
	ProviderNone   = "none"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Practice   bool
	ListModels bool

	// Word generation flags
	Provider        string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiModel     string
	RemoteURL       string
	LLMTimeout      time.Duration
	BreakerFailures int
	BreakerCooldown time.Duration

	// Server flags
	Addr           string
	Production     bool
	RateLimitRPS   int
	RateLimitBurst int
	SessionTimeout time.Duration

	// Session flags
	WordInterval time.Duration
	MaxFailures  int
	Theme        string
	Difficulty   string
	WordsFile    string

	// Beat flags
	BeatsDir string
	Beat     string

	// Logging flags
	LogLevel  string
	LogFormat string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	llmDefaults := llm.DefaultConfig()
	breaker := llm.DefaultBreakerSettings()
	srv := server.DefaultConfig()
	sched := scheduler.DefaultConfig()

	return &Flags{
		Provider:        ProviderOpenAI,
		OpenAIModel:     llmDefaults.OpenAIModel,
		GeminiModel:     llmDefaults.GeminiModel,
		LLMTimeout:      llmDefaults.Timeout,
		BreakerFailures: int(breaker.MaxFailures),
		BreakerCooldown: breaker.Cooldown,
		Addr:            srv.Addr,
		RateLimitRPS:    srv.RateLimitRPS,
		RateLimitBurst:  srv.RateLimitBurst,
		SessionTimeout:  srv.SessionTimeout,
		WordInterval:    sched.WordInterval,
		MaxFailures:     sched.MaxFailures,
		Theme:           string(wordpool.DefaultTheme),
		Difficulty:      string(wordpool.DefaultDifficulty),
		BeatsDir:        "beats",
		Beat:            beats.DefaultBeat,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}
