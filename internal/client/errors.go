package client

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"pulse/internal/ratelimit"

	"github.com/ollama/ollama/api"
	"google.golang.org/genai"
)

// APIError represents an API error with HTTP status code.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a rejected credential.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return true
		case 400:
			return strings.Contains(strings.ToLower(apiErr.Message), "api key")
		}
	}
	return false
}

// IsRateLimitError reports whether the endpoint throttled the request.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}

// releaseUnsent returns the rate-limit slot when err shows the request never
// reached the server.
func releaseUnsent(limiter *ratelimit.Limiter, err error) {
	if limiter == nil || err == nil {
		return
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		limiter.Release()
	}
}

// wrapGeminiError converts genai errors into *APIError so callers see one shape.
func wrapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	var gerr genai.APIError
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = gerr.Status
		}
		return &APIError{Provider: "gemini", StatusCode: gerr.Code, Message: msg}
	}

	var gerrPtr *genai.APIError
	if errors.As(err, &gerrPtr) && gerrPtr != nil {
		msg := gerrPtr.Message
		if msg == "" {
			msg = gerrPtr.Status
		}
		return &APIError{Provider: "gemini", StatusCode: gerrPtr.Code, Message: msg}
	}

	return err
}

// wrapOllamaError wraps Ollama errors with user-friendly messages.
func wrapOllamaError(err error, model string) error {
	if err == nil {
		return nil
	}

	var status api.StatusError
	if errors.As(err, &status) {
		return ollamaStatusError(status, model)
	}
	var statusPtr *api.StatusError
	if errors.As(err, &statusPtr) && statusPtr != nil {
		return ollamaStatusError(*statusPtr, model)
	}

	errStr := err.Error()

	var opErr *net.OpError
	if errors.As(err, &opErr) || strings.Contains(errStr, "connection refused") {
		return fmt.Errorf("Ollama server is not reachable (start it with 'ollama serve'): %w", err)
	}

	return err
}

func ollamaStatusError(status api.StatusError, model string) error {
	msg := status.ErrorMessage
	if msg == "" {
		msg = status.Status
	}
	if status.StatusCode == 404 {
		msg = fmt.Sprintf("model '%s' is not installed (run 'ollama pull %s')", model, model)
	}
	return &APIError{Provider: "ollama", StatusCode: status.StatusCode, Message: msg}
}
