package client

import (
	"context"
	"fmt"

	"pulse/internal/config"
	"pulse/internal/logging"
	"pulse/internal/ratelimit"
	"pulse/internal/security"
)

// New creates a client for the configured provider, gated by the configured
// rate limiter.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		BurstSize:         cfg.RateLimit.BurstSize,
	})

	provider := cfg.API.GetProvider()
	logging.Debug("creating client",
		"provider", provider,
		"model", cfg.Model.Name,
		"preset", cfg.Model.Preset)

	switch provider {
	case config.ProviderGemini:
		c, err := newGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.SetRateLimiter(limiter)
		return c, nil
	case config.ProviderOllama:
		c, err := newOllamaClient(cfg)
		if err != nil {
			return nil, err
		}
		c.SetRateLimiter(limiter)
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, provider)
	}
}

func newGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	loadedKey := security.GetGeminiKey(cfg.API.GeminiKey)
	if !loadedKey.IsSet() {
		return nil, config.ErrMissingAuth
	}

	logging.Debug("loaded Gemini API key",
		"source", loadedKey.Source,
		"env", loadedKey.EnvVar,
		"model", cfg.Model.Name)

	if err := security.ValidateKeyFormat(loadedKey.Value); err != nil {
		return nil, fmt.Errorf("invalid Gemini API key: %w", err)
	}

	return NewGeminiClient(ctx, GeminiConfig{
		APIKey:          loadedKey.Value,
		BaseURL:         cfg.API.GeminiBaseURL,
		Model:           cfg.Model.Name,
		Temperature:     cfg.Model.Temperature,
		MaxOutputTokens: cfg.Model.MaxOutputTokens,
		ThinkingBudget:  cfg.Model.ThinkingBudget,
	})
}

func newOllamaClient(cfg *config.Config) (*OllamaClient, error) {
	loadedKey := security.GetOllamaKey(cfg.API.OllamaKey)
	if loadedKey.IsSet() {
		logging.Debug("loaded Ollama API key",
			"source", loadedKey.Source,
			"model", cfg.Model.Name)
	}

	return NewOllamaClient(OllamaConfig{
		BaseURL:     cfg.API.OllamaBaseURL,
		APIKey:      loadedKey.Value,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxOutputTokens,
	})
}
