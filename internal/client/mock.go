package client

import (
	"context"
	"sync"
)

// MockClient implements Client for testing.
// Responses are returned in order; the last one repeats once the queue is drained.
type MockClient struct {
	mu        sync.Mutex
	model     string
	responses []string
	requests  []Request

	// Hooks for testing error scenarios
	GenerateError error

	// Block, when non-nil, is waited on before every response.
	Block chan struct{}
}

// NewMockClient creates a MockClient that replies with responses.
func NewMockClient(model string, responses ...string) *MockClient {
	return &MockClient{
		model:     model,
		responses: responses,
	}
}

// QueueResponse appends a response.
func (m *MockClient) QueueResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, text)
}

func (m *MockClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GenerateError != nil {
		return "", m.GenerateError
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	text := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return text, nil
}

// Requests returns a copy of every request received.
func (m *MockClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockClient) Model() string {
	return m.model
}

func (m *MockClient) Close() error {
	return nil
}
