package client

import (
	"context"
	"fmt"
	"time"

	"pulse/internal/logging"
	"pulse/internal/ratelimit"

	"google.golang.org/genai"
)

// GeminiConfig holds configuration for the Gemini API client.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string // Optional endpoint override
	Model           string
	Temperature     float32 // 0 = provider default
	MaxOutputTokens int32   // 0 = provider default
	ThinkingBudget  int32   // 0 = disabled
}

// GeminiClient wraps the Google Gemini API.
type GeminiClient struct {
	client      *genai.Client
	config      GeminiConfig
	rateLimiter *ratelimit.Limiter
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key required (get one at https://aistudio.google.com/apikey and set GEMINI_API_KEY)")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	clientConfig := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: cfg,
	}, nil
}

// SetRateLimiter sets the rate limiter for API calls.
func (c *GeminiClient) SetRateLimiter(limiter *ratelimit.Limiter) {
	c.rateLimiter = limiter
}

// RateLimitStats reports the limiter's counters. Without a limiter the
// stats show it disabled.
func (c *GeminiClient) RateLimitStats() ratelimit.Stats {
	if c.rateLimiter == nil {
		return ratelimit.Stats{}
	}
	return c.rateLimiter.Stats()
}

// GenerateJSON sends the prompt with a JSON response schema and returns the response text.
func (c *GeminiClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, contents, c.generateConfig(req))
	if err != nil {
		logging.Debug("gemini request failed",
			"model", c.config.Model,
			"duration", time.Since(start),
			"error", err)
		releaseUnsent(c.rateLimiter, err)
		return "", wrapGeminiError(err)
	}

	text := resp.Text()
	logging.Debug("gemini request completed",
		"model", c.config.Model,
		"duration", time.Since(start),
		"response_len", len(text))

	return text, nil
}

func (c *GeminiClient) generateConfig(req Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if c.config.Temperature > 0 {
		config.Temperature = Ptr(c.config.Temperature)
	}
	if c.config.MaxOutputTokens > 0 {
		config.MaxOutputTokens = c.config.MaxOutputTokens
	}

	budget := c.config.ThinkingBudget
	if req.ThinkingBudget > 0 {
		budget = req.ThinkingBudget
	}
	if budget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: Ptr(budget),
		}
	}
	return config
}

// Model returns the model identifier.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources. The genai client holds no connections of its own.
func (c *GeminiClient) Close() error {
	return nil
}
