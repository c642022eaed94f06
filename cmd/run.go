package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/app"
	"github.com/abhisek/curioloop/internal/engine"
	"github.com/abhisek/curioloop/internal/gateway"
	"github.com/abhisek/curioloop/internal/llm"
	"github.com/abhisek/curioloop/internal/logging"
	"github.com/abhisek/curioloop/internal/persist"
)

var errNoProvider = errors.New("no LLM API key found: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY, or run `curioloop config init`")

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	if !llm.Discover(&cfg.LLM) {
		return errNoProvider
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
	if err != nil {
		return fmt.Errorf("init LLM provider: %w", err)
	}
	log.Info("starting",
		zap.String("version", version),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", provider.ModelID()))

	adapter := persist.New(st.RecordRepo(), log)
	loaded, err := adapter.Load(ctx, time.Now())
	if err != nil {
		// Loaded still holds usable defaults.
		fmt.Fprintln(os.Stderr, "warning: could not read saved progress:", err)
	}

	eng := engine.New(
		gateway.New(provider, cfg.Generation, log),
		adapter,
		loaded.Paths,
		loaded.Stats,
		engine.WithLogger(log),
	)
	return app.Run(ctx, app.Options{Engine: eng, Logger: log})
}
