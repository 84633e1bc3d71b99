package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/freestyle/internal"
)

// viperKeys maps config keys to the flags they are bound to
var viperKeys = map[string]string{
	"llm.provider":            "provider",
	"llm.openai_model":        "openai-model",
	"llm.openai_base_url":     "openai-base-url",
	"llm.gemini_model":        "gemini-model",
	"llm.remote_url":          "remote-url",
	"llm.timeout":             "llm-timeout",
	"breaker.failures":        "breaker-failures",
	"breaker.cooldown":        "breaker-cooldown",
	"server.addr":             "addr",
	"server.production":       "production",
	"server.rate_limit_rps":   "rate-limit-rps",
	"server.rate_limit_burst": "rate-limit-burst",
	"server.session_timeout":  "session-timeout",
	"session.word_interval":   "word-interval",
	"session.max_failures":    "max-failures",
	"session.theme":           "theme",
	"session.difficulty":      "difficulty",
	"words.file":              "words-file",
	"beats.dir":               "beats-dir",
	"beats.beat":              "beat",
	"log.level":               "log-level",
	"log.format":              "log-format",
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "freestyle",
		Short: "Freestyle rap practice with timed word prompts",
		Long: `freestyle serves timed word prompts for freestyle rap practice.

Every few seconds a new theme-matching word is generated by an LLM (or
picked from the built-in word bank when the LLM is unavailable), together
with a few rhymes, while a backing beat plays.

Examples:
  freestyle                         # Serve the practice API on :8080 (default)
  freestyle --practice              # Practice in the terminal
  freestyle --practice --theme love --difficulty beginner --beat lofi
  freestyle --provider gemini       # Generate words with Gemini
  freestyle --list-models           # List OpenAI chat models for the current key`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.freestyle.yaml)")

	// Modes
	cmd.Flags().BoolVar(&flags.Practice, "practice", false, "Practice in the terminal instead of serving HTTP")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI chat models for the current API key")

	// Word generation flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Word source: openai, gemini, remote or none (word bank only)")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model")
	cmd.Flags().StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "OpenAI-compatible API base URL")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model")
	cmd.Flags().StringVar(&flags.RemoteURL, "remote-url", "", "Base URL of a freestyle server to fetch words and rhymes from (provider remote)")
	cmd.Flags().DurationVar(&flags.LLMTimeout, "llm-timeout", flags.LLMTimeout, "Timeout of a single word or rhyme request")
	cmd.Flags().IntVar(&flags.BreakerFailures, "breaker-failures", flags.BreakerFailures, "Consecutive LLM failures before requests are skipped")
	cmd.Flags().DurationVar(&flags.BreakerCooldown, "breaker-cooldown", flags.BreakerCooldown, "How long LLM requests are skipped after repeated failures")

	// Server flags
	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "HTTP listen address")
	cmd.Flags().BoolVar(&flags.Production, "production", false, "Production mode (secure cookies, release logging)")
	cmd.Flags().IntVar(&flags.RateLimitRPS, "rate-limit-rps", flags.RateLimitRPS, "Requests per second per client")
	cmd.Flags().IntVar(&flags.RateLimitBurst, "rate-limit-burst", flags.RateLimitBurst, "Request burst per client")
	cmd.Flags().DurationVar(&flags.SessionTimeout, "session-timeout", flags.SessionTimeout, "Idle time after which a browser session is closed")

	// Session flags
	cmd.Flags().DurationVar(&flags.WordInterval, "word-interval", flags.WordInterval, "Time between words")
	cmd.Flags().IntVar(&flags.MaxFailures, "max-failures", flags.MaxFailures, "Consecutive failures before a session stops")
	cmd.Flags().StringVarP(&flags.Theme, "theme", "t", flags.Theme, "Theme: street, love, battle, conscious, party")
	cmd.Flags().StringVarP(&flags.Difficulty, "difficulty", "d", flags.Difficulty, "Difficulty: beginner, intermediate, advanced")
	cmd.Flags().StringVar(&flags.WordsFile, "words-file", "", "YAML file replacing word bank lists")

	// Beat flags
	cmd.Flags().StringVar(&flags.BeatsDir, "beats-dir", flags.BeatsDir, "Directory holding the beat files")
	cmd.Flags().StringVarP(&flags.Beat, "beat", "b", flags.Beat, "Beat: hiphop, lofi, trap")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	for key, name := range viperKeys {
		viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".freestyle" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".freestyle")
	}

	// Environment variables, e.g. FREESTYLE_SERVER_ADDR for server.addr
	viper.SetEnvPrefix("FREESTYLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ResolveFlags copies config file and environment values into flags.
// Flags given on the command line win, then the environment, then the
// config file, then the flag defaults.
func ResolveFlags(flags *Flags) {
	flags.Provider = viper.GetString("llm.provider")
	flags.OpenAIModel = viper.GetString("llm.openai_model")
	flags.OpenAIBaseURL = viper.GetString("llm.openai_base_url")
	flags.GeminiModel = viper.GetString("llm.gemini_model")
	flags.RemoteURL = viper.GetString("llm.remote_url")
	flags.LLMTimeout = viper.GetDuration("llm.timeout")
	flags.BreakerFailures = viper.GetInt("breaker.failures")
	flags.BreakerCooldown = viper.GetDuration("breaker.cooldown")
	flags.Addr = viper.GetString("server.addr")
	flags.Production = viper.GetBool("server.production")
	flags.RateLimitRPS = viper.GetInt("server.rate_limit_rps")
	flags.RateLimitBurst = viper.GetInt("server.rate_limit_burst")
	flags.SessionTimeout = viper.GetDuration("server.session_timeout")
	flags.WordInterval = viper.GetDuration("session.word_interval")
	flags.MaxFailures = viper.GetInt("session.max_failures")
	flags.Theme = viper.GetString("session.theme")
	flags.Difficulty = viper.GetString("session.difficulty")
	flags.WordsFile = viper.GetString("words.file")
	flags.BeatsDir = viper.GetString("beats.dir")
	flags.Beat = viper.GetString("beats.beat")
	flags.LogLevel = viper.GetString("log.level")
	flags.LogFormat = viper.GetString("log.format")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("llm.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("llm.gemini_key")
}
