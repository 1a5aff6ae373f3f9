package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/amishk599/resumetailor/internal/ai"
	"github.com/amishk599/resumetailor/internal/config"
	"github.com/amishk599/resumetailor/internal/history"
	"github.com/amishk599/resumetailor/internal/model"
	"github.com/amishk599/resumetailor/internal/ratelimit"
	"github.com/amishk599/resumetailor/internal/retry"
	"github.com/amishk599/resumetailor/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "resumetailor",
	Short: "Tailor your resume to a job description",
	Long:  "resumetailor sends a job description and your resume to a chat-completion model and shows targeted recommendations or a tailored resume.",
	// `resumetailor` with no args opens the wizard.
	RunE:          runWizard,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: RESUMETAILOR_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > RESUMETAILOR_CONFIG env var > "./config.yaml".
// Only the implicit default may be missing, in which case defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}
	if path != "" {
		return config.Load(path)
	}
	if env := os.Getenv("RESUMETAILOR_CONFIG"); env != "" {
		return config.Load(env)
	}
	return config.LoadOrDefault("config.yaml")
}

// setupLogger logs to stderr so stdout stays clean for command output.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// setupTUILogger returns a logger that cannot corrupt the alt-screen: a file
// logger under --debug, otherwise a discard logger.
func setupTUILogger(dbg bool) (*slog.Logger, func()) {
	if !dbg {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	f, err := os.OpenFile("resumetailor.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), func() { f.Close() }
}

func setupProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		logger.Debug("using gemini provider", "model", cfg.AI.Model)
		return ai.NewGeminiProvider(ctx, cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
	default:
		logger.Debug("using openai provider", "model", cfg.AI.Model, "base_url", cfg.AI.BaseURL)
		return ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, &http.Client{}), nil
	}
}

// openStore returns the SQLite history store, or a no-op store when history
// is disabled.
func openStore(cfg *config.Config) (model.CompletionStore, func(), error) {
	if !cfg.History.Enabled {
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	return sqlStore, func() { sqlStore.Close() }, nil
}

// pipeline is everything a front end needs to run completions.
type pipeline struct {
	cfg      *config.Config
	store    model.CompletionStore
	recorder *history.Recorder
	close    func()
}

// buildPipeline wires provider → retry → rate limit → requester → history.
func buildPipeline(ctx context.Context, logger *slog.Logger) (*pipeline, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.AI.RequireAPIKey(); err != nil {
		return nil, err
	}

	provider, err := setupProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	provider = retry.NewProvider(provider, cfg.AI.MaxRetries, cfg.AI.RetryBaseDelay, logger)
	if cfg.RateLimit.MinDelay > 0 {
		limiter := ratelimit.NewLimiter(cfg.RateLimit.MinDelay)
		provider = ratelimit.NewProvider(provider, limiter, cfg.AI.Provider)
		logger.Debug("rate limiter configured", "min_delay", cfg.RateLimit.MinDelay.String())
	}

	requester := ai.NewRequester(provider, cfg.AI.Timeout, logger)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("config loaded",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"timeout", cfg.AI.Timeout.String(),
		"max_retries", cfg.AI.MaxRetries,
		"history", cfg.History.Enabled,
	)

	return &pipeline{
		cfg:      cfg,
		store:    st,
		recorder: history.NewRecorder(requester, st, logger),
		close:    closeStore,
	}, nil
}
