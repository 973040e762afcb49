package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pulse/internal/logging"
	"pulse/internal/ratelimit"

	"github.com/ollama/ollama/api"
	"google.golang.org/genai"
)

// OllamaConfig holds configuration for Ollama API client.
type OllamaConfig struct {
	BaseURL     string // Default: "http://localhost:11434"
	APIKey      string // Optional, for remote Ollama servers with auth
	Model       string // e.g., "qwen2.5-coder"
	Temperature float32
	MaxTokens   int32
}

// OllamaClient implements Client for a local or remote Ollama server using
// structured outputs.
type OllamaClient struct {
	client      *api.Client
	config      OllamaConfig
	rateLimiter *ratelimit.Limiter
}

// authTransport adds Authorization header to HTTP requests.
type authTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(reqClone)
}

// NewOllamaClient creates a new Ollama API client.
func NewOllamaClient(config OllamaConfig) (*OllamaClient, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	if baseURL.Scheme == "http" {
		host := baseURL.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			logging.Warn("Ollama connection uses unencrypted HTTP to remote host",
				"host", host)
		}
	}

	// No client timeout: project generation can take minutes on local hardware.
	httpClient := &http.Client{}
	if config.APIKey != "" {
		httpClient.Transport = &authTransport{
			base:   http.DefaultTransport,
			apiKey: config.APIKey,
		}
	}

	return &OllamaClient{
		client: api.NewClient(baseURL, httpClient),
		config: config,
	}, nil
}

// SetRateLimiter sets the rate limiter for API calls.
func (c *OllamaClient) SetRateLimiter(limiter *ratelimit.Limiter) {
	c.rateLimiter = limiter
}

// RateLimitStats reports the limiter's counters. Without a limiter the
// stats show it disabled.
func (c *OllamaClient) RateLimitStats() ratelimit.Stats {
	if c.rateLimiter == nil {
		return ratelimit.Stats{}
	}
	return c.rateLimiter.Stats()
}

// GenerateJSON sends a single non-streaming chat request constrained to the
// request schema and returns the message content.
func (c *OllamaClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	format, err := SchemaJSON(req.Schema)
	if err != nil {
		if c.rateLimiter != nil {
			c.rateLimiter.Release()
		}
		return "", err
	}

	chatReq := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: []api.Message{{Role: "user", Content: req.Prompt}},
		Stream:   Ptr(false),
		Format:   format,
		Options:  map[string]interface{}{},
	}
	if c.config.Temperature > 0 {
		chatReq.Options["temperature"] = c.config.Temperature
	}
	if c.config.MaxTokens > 0 {
		chatReq.Options["num_predict"] = c.config.MaxTokens
	}

	start := time.Now()
	var content strings.Builder
	err = c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		logging.Debug("ollama request failed",
			"model", c.config.Model,
			"duration", time.Since(start),
			"error", err)
		releaseUnsent(c.rateLimiter, err)
		return "", wrapOllamaError(err, c.config.Model)
	}

	logging.Debug("ollama request completed",
		"model", c.config.Model,
		"duration", time.Since(start),
		"response_len", content.Len())

	return content.String(), nil
}

// Model returns the model identifier.
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Close releases resources.
func (c *OllamaClient) Close() error {
	return nil
}

// ListModels returns the names of the models installed on the server.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, wrapOllamaError(err, c.config.Model)
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// IsModelAvailable reports whether the configured model is installed. A bare
// name matches any tag of that model.
func (c *OllamaClient) IsModelAvailable(ctx context.Context) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}

	name := c.config.Model
	for _, m := range models {
		if m == name || strings.HasPrefix(m, name+":") {
			return true, nil
		}
	}
	return false, nil
}

// SchemaJSON converts a genai schema into a JSON Schema document suitable for
// Ollama's format field. A nil schema yields nil (free-form output).
func SchemaJSON(schema *genai.Schema) (json.RawMessage, error) {
	if schema == nil {
		return nil, nil
	}
	data, err := json.Marshal(schemaToMap(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to encode response schema: %w", err)
	}
	return data, nil
}

func schemaToMap(s *genai.Schema) map[string]any {
	m := map[string]any{}
	if s.Type != "" {
		m["type"] = strings.ToLower(string(s.Type))
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			if prop != nil {
				props[name] = schemaToMap(prop)
			}
		}
		m["properties"] = props
	}
	if s.Items != nil {
		m["items"] = schemaToMap(s.Items)
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	return m
}
