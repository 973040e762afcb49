// Package architect turns natural-language requests into generated projects.
package architect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pulse/internal/client"
	"pulse/internal/logging"
	"pulse/internal/project"
)

// Operation names used in errors and logs.
const (
	OpGenerate = "generate"
	OpRefine   = "refine"
)

// Service issues generation and refinement requests through a model client.
type Service struct {
	client         client.Client
	thinkingBudget int32
}

// Option configures a Service.
type Option func(*Service)

// WithThinkingBudget overrides the client's configured thinking budget.
func WithThinkingBudget(budget int32) Option {
	return func(s *Service) {
		s.thinkingBudget = budget
	}
}

// NewService creates a service backed by c.
func NewService(c client.Client, opts ...Option) *Service {
	s := &Service{client: c}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the identifier of the backing model.
func (s *Service) Model() string {
	return s.client.Model()
}

// GenerateProject builds a new project from a free-text request.
// The first returned file is selected.
func (s *Service) GenerateProject(ctx context.Context, prompt string) (*project.State, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &GenerationError{Kind: ErrEmptyInstruction, Op: OpGenerate}
	}

	return s.call(ctx, OpGenerate, client.Request{
		Prompt:         GenerationPrompt(prompt),
		Schema:         ProjectSchema(true),
		ThinkingBudget: s.thinkingBudget,
	})
}

// RefineProject asks the model to modify files according to instruction.
// The result replaces the project entirely; the selection resets to its first file.
func (s *Service) RefineProject(ctx context.Context, files []project.File, instruction string) (*project.State, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, &GenerationError{Kind: ErrEmptyInstruction, Op: OpRefine}
	}

	prompt, err := RefinementPrompt(files, instruction)
	if err != nil {
		return nil, EncodeError(OpRefine, fmt.Errorf("encode context: %w", err))
	}

	return s.call(ctx, OpRefine, client.Request{
		Prompt:         prompt,
		Schema:         ProjectSchema(false),
		ThinkingBudget: s.thinkingBudget,
	})
}

func (s *Service) call(ctx context.Context, op string, req client.Request) (*project.State, error) {
	start := time.Now()

	text, err := s.client.GenerateJSON(ctx, req)
	if err != nil {
		logging.Warn("model call failed",
			"op", op,
			"model", s.client.Model(),
			"duration", time.Since(start),
			"error", err)
		return nil, TransportError(op, err)
	}

	if strings.TrimSpace(text) == "" {
		logging.Warn("model returned no text",
			"op", op,
			"model", s.client.Model(),
			"duration", time.Since(start))
		return nil, EmptyResponseError(op)
	}

	state, err := DecodeProject(text)
	if err != nil {
		logging.Warn("model returned malformed project",
			"op", op,
			"model", s.client.Model(),
			"response_len", len(text),
			"error", err)
		return nil, ParseError(op, err)
	}

	logging.Info("project received",
		"op", op,
		"model", s.client.Model(),
		"duration", time.Since(start),
		"title", state.Title,
		"files", len(state.Files))

	return state, nil
}
