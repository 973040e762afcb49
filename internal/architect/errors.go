package architect

import (
	"errors"
	"fmt"
	"strings"

	"pulse/internal/client"
	"pulse/internal/security"
)

// FallbackMessage is shown when a failure carries no usable text.
const FallbackMessage = "Failed to generate code. Please check your API key."

const (
	authMessage      = "The API key was rejected. Check GEMINI_API_KEY or the configured api key."
	rateLimitMessage = "The model endpoint is rate limiting requests. Wait a moment and try again."
)

// Sentinel kinds, matched with errors.Is.
var (
	ErrTransport        = errors.New("transport error")
	ErrEmptyResponse    = errors.New("empty response")
	ErrParse            = errors.New("parse error")
	ErrEncode           = errors.New("encode error")
	ErrEmptyInstruction = errors.New("empty instruction")
)

// GenerationError is returned by every Service operation.
type GenerationError struct {
	Kind error  // one of the sentinel kinds above
	Op   string // "generate" or "refine"
	Err  error  // underlying cause, may be nil
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// TransportError wraps a failed call to the model endpoint.
func TransportError(op string, err error) *GenerationError {
	return &GenerationError{Kind: ErrTransport, Op: op, Err: err}
}

// EmptyResponseError reports a call that returned no text payload.
func EmptyResponseError(op string) *GenerationError {
	return &GenerationError{Kind: ErrEmptyResponse, Op: op}
}

// ParseError reports a payload that is not JSON or does not match the project shape.
func ParseError(op string, err error) *GenerationError {
	return &GenerationError{Kind: ErrParse, Op: op, Err: err}
}

// EncodeError reports a request that could not be built locally.
func EncodeError(op string, err error) *GenerationError {
	return &GenerationError{Kind: ErrEncode, Op: op, Err: err}
}

// UserMessage normalizes any service error into the single line shown to the user.
// Credentials that leak into upstream messages are masked.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var msg string
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case ErrTransport:
			switch {
			case client.IsAuthError(genErr.Err):
				msg = authMessage
			case client.IsRateLimitError(genErr.Err):
				msg = rateLimitMessage
			case genErr.Err != nil:
				msg = genErr.Err.Error()
			}
		case ErrEmptyResponse:
			msg = "No response from AI"
		case ErrParse:
			msg = "The AI returned a malformed project"
			if genErr.Err != nil {
				msg += ": " + genErr.Err.Error()
			}
		case ErrEncode:
			msg = "Could not prepare the request"
			if genErr.Err != nil {
				msg += ": " + genErr.Err.Error()
			}
		case ErrEmptyInstruction:
			msg = "Describe what Pulse should build"
		}
	} else {
		msg = err.Error()
	}

	msg = strings.TrimSpace(security.Redact(msg))
	if msg == "" {
		return FallbackMessage
	}
	// The header has one line for errors.
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = strings.TrimSpace(msg[:i])
	}
	return msg
}
