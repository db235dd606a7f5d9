package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/KigoJomo/privacy-peek/internal/analyzer"
	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/config"
	"github.com/KigoJomo/privacy-peek/internal/engine"
	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
	"github.com/KigoJomo/privacy-peek/internal/service"
	"github.com/KigoJomo/privacy-peek/internal/storage"
)

// databasePath resolves the SQLite file location from config, with a
// per-user default.
func databasePath() (string, error) {
	dbPath := viper.GetString("database.path")
	if dbPath != "" {
		return config.ExpandPath(dbPath), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "privacy-peek", "privacy-peek.db"), nil
}

// openStorage opens the database and applies pending migrations.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return store, nil
}

// createLLMClient creates an LLM client based on configuration.
// This function is shared by the serve and analyze commands.
func createLLMClient() (llm.Client, llm.Config, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "openai" // default provider
	}

	config := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}

	// Set defaults if not specified
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 15 * time.Minute
	}
	if config.RateLimit == 0 {
		config.RateLimit = 60 // requests per minute
	}

	// Get API key based on provider
	switch provider {
	case "openai":
		apiKey := viper.GetString("llm.openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, config, fmt.Errorf("%w: OpenAI API key not found in config or OPENAI_API_KEY environment variable", common.ErrMissingConfig)
		}
		config.APIKey = apiKey

	case "anthropic":
		apiKey := viper.GetString("llm.anthropic_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, config, fmt.Errorf("%w: Anthropic API key not found in config or ANTHROPIC_API_KEY environment variable", common.ErrMissingConfig)
		}
		config.APIKey = apiKey

	default:
		return nil, config, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, provider)
	}

	client, err := llm.NewClient(config)
	if err != nil {
		return nil, config, err
	}
	return client, config, nil
}

// buildEngine wires the full analysis pipeline from configuration.
// The returned cleanup function releases the rate limiter and
// metadata cache.
func buildEngine(store *storage.SQLiteStorage, logger *slog.Logger) (*engine.AnalysisEngine, func(), error) {
	client, llmCfg, err := createLLMClient()
	if err != nil {
		return nil, nil, err
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  llmCfg.MaxRetries,
		InitialDelay: llmCfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	limiter := llm.NewRateLimiter(llmCfg.RateLimit)
	resolver := analyzer.NewResolver(client, limiter, llmCfg.CacheTTL, retryOpts, logger)
	extractor := analyzer.NewExtractor(client, limiter, retryOpts, logger)
	scorer := analyzer.NewScorer(client, limiter, retryOpts, logger)
	aggregator := analyzer.NewAggregator(client, limiter, retryOpts, logger)
	catalog := rubric.New()

	config := engine.DefaultConfig()
	if freshness := viper.GetDuration("analysis.freshness"); freshness > 0 {
		config.Freshness = freshness
	}

	eng := engine.NewWithConfig(store, resolver, extractor, scorer, aggregator, catalog, logger, config)

	cleanup := func() {
		resolver.Close()
		limiter.Close()
	}
	return eng, cleanup, nil
}
