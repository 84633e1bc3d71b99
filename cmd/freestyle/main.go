package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/cli"
	"codeberg.org/snonux/freestyle/internal/llm"
	"codeberg.org/snonux/freestyle/internal/logging"
	"codeberg.org/snonux/freestyle/internal/models"
	"codeberg.org/snonux/freestyle/internal/practice"
	"codeberg.org/snonux/freestyle/internal/remote"
	"codeberg.org/snonux/freestyle/internal/rhyme"
	"codeberg.org/snonux/freestyle/internal/scheduler"
	"codeberg.org/snonux/freestyle/internal/server"
	"codeberg.org/snonux/freestyle/internal/supply"
	"codeberg.org/snonux/freestyle/internal/wordgen"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cli.ResolveFlags(flags)
		return runCommand(cmd.Context(), flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Execute command
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, flags *cli.Flags) error {
	if err := flags.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(flags.LogLevel, flags.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey(), flags.OpenAIBaseURL)
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	pool, err := wordpool.Load(flags.WordsFile)
	if err != nil {
		return fmt.Errorf("failed to load word lists: %w", err)
	}

	generator, rhymer, err := buildSources(ctx, flags, logger)
	if err != nil {
		return err
	}

	opts := []supply.Option{
		supply.WithRhymeTimeout(flags.LLMTimeout),
		supply.WithLogger(logger.Named("supply")),
	}
	if generator != nil {
		opts = append(opts, supply.WithGenerator(generator))
	}
	if rhymer != nil {
		opts = append(opts, supply.WithRhymer(rhymer))
	}
	supplier := supply.New(pool, opts...)

	if flags.Practice {
		return runPractice(ctx, flags, supplier, logger)
	}
	return runServer(ctx, flags, generator, rhymer, supplier, logger)
}

// buildSources creates the word generator and rhymer for the configured
// provider. Both are nil when words come from the word bank only.
func buildSources(ctx context.Context, flags *cli.Flags, logger *zap.Logger) (wordgen.Generator, rhyme.Rhymer, error) {
	switch {
	case flags.Provider == cli.ProviderRemote:
		client := remote.NewClient(flags.RemoteURL, flags.LLMTimeout)
		logger.Info("Using remote word service", zap.String("url", client.BaseURL()))
		return wordgen.NewRemoteGenerator(client), rhyme.NewRemoteRhymer(client), nil

	case flags.UsesLLM():
		completer, err := llm.NewCompleter(ctx, flags.LLMConfig())
		if errors.Is(err, llm.ErrNoAPIKey) {
			logger.Warn("No API key configured, using the built-in word bank only",
				zap.String("provider", flags.Provider))
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create %s client: %w", flags.Provider, err)
		}

		guarded := llm.NewBreakerCompleter(completer, flags.BreakerSettings(), logger.Named("breaker"))
		logger.Info("Using LLM word generation",
			zap.String("provider", completer.Name()))
		return wordgen.NewLLMGenerator(guarded, logger.Named("wordgen")), rhyme.NewLLMRhymer(guarded), nil

	default:
		logger.Info("Using the built-in word bank only")
		return nil, nil, nil
	}
}

func runServer(ctx context.Context, flags *cli.Flags, generator wordgen.Generator, rhymer rhyme.Rhymer, supplier *supply.Supplier, logger *zap.Logger) error {
	srv, err := server.New(flags.ServerConfig(), server.Deps{
		Generator: generator,
		Rhymer:    rhymer,
		Supplier:  supplier,
		Logger:    logger.Named("server"),
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func runPractice(ctx context.Context, flags *cli.Flags, supplier *supply.Supplier, logger *zap.Logger) error {
	sched := scheduler.New(supplier, flags.SchedulerConfig(),
		scheduler.WithLogger(logger.Named("scheduler")))
	defer sched.Close()

	runner, err := practice.New(sched, practice.Config{
		In:     os.Stdin,
		Out:    os.Stdout,
		Player: beats.NewExecPlayer(flags.BeatsDir, logger.Named("player")),
		Beat:   flags.Beat,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	return runner.Run(ctx)
}
