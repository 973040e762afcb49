package client

import (
	"context"

	"pulse/internal/ratelimit"

	"google.golang.org/genai"
)

// ModelInfo contains information about a known model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-3-pro-preview", "qwen2.5-coder")
	Name        string // Human-readable name
	Description string // Short description
	Provider    string // Provider: "gemini" or "ollama"
}

// AvailableModels is the list of models Pulse is tuned for.
// Any other model name is passed through to its provider unchanged.
var AvailableModels = []ModelInfo{
	{
		ID:          "gemini-3-pro-preview",
		Name:        "Gemini 3 Pro",
		Description: "Most capable, best for whole projects",
		Provider:    "gemini",
	},
	{
		ID:          "gemini-3-flash-preview",
		Name:        "Gemini 3 Flash",
		Description: "Fast and cheap, good for refinements",
		Provider:    "gemini",
	},
	{
		ID:          "gemini-2.5-pro",
		Name:        "Gemini 2.5 Pro",
		Description: "Previous generation, thinking enabled",
		Provider:    "gemini",
	},
	{
		ID:          "qwen2.5-coder",
		Name:        "Qwen 2.5 Coder (Ollama)",
		Description: "Local model. Any name from 'ollama list' works",
		Provider:    "ollama",
	},
}

// GetModelsForProvider returns models filtered by provider.
func GetModelsForProvider(provider string) []ModelInfo {
	var models []ModelInfo
	for _, m := range AvailableModels {
		if m.Provider == provider {
			models = append(models, m)
		}
	}
	return models
}

// GetModelInfo returns information about a specific model.
func GetModelInfo(modelID string) (ModelInfo, bool) {
	for _, m := range AvailableModels {
		if m.ID == modelID {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// Request is a single structured-output generation request.
type Request struct {
	Prompt string

	// Schema describes the JSON document the model must return.
	Schema *genai.Schema

	// ThinkingBudget overrides the configured budget when positive.
	ThinkingBudget int32
}

// Client sends one prompt and returns the model's JSON text.
// Implementations do not retry; every failure is returned to the caller.
type Client interface {
	// GenerateJSON returns the raw response text. An empty string with a nil
	// error means the model produced no text payload.
	GenerateJSON(ctx context.Context, req Request) (string, error)

	// Model returns the model identifier used for requests.
	Model() string

	// Close releases resources.
	Close() error
}

// Limited is implemented by clients gated by a rate limiter.
type Limited interface {
	RateLimitStats() ratelimit.Stats
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
