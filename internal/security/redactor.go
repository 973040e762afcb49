package security

import (
	"regexp"
)

const redacted = "[REDACTED]"

// SecretRedactor masks credentials that can leak into error messages
// returned by model endpoints (query strings, auth headers, raw keys).
type SecretRedactor struct {
	// patterns with one capture group keep the group and mask the rest of the match
	labeled []*regexp.Regexp
	bare    []*regexp.Regexp
}

// NewSecretRedactor creates a redactor with the default patterns.
func NewSecretRedactor() *SecretRedactor {
	return &SecretRedactor{
		labeled: []*regexp.Regexp{
			// key=..., api_key: "...", access_token=...
			regexp.MustCompile(`(?i)((?:api[_-]?key|key|access[_-]?token|auth[_-]?token|token|secret)\s*[:=]\s*["']?)[a-zA-Z0-9_\-\.]{8,}`),
			regexp.MustCompile(`(?i)(x-goog-api-key:\s*)\S+`),
			regexp.MustCompile(`(?i)(Bearer\s+)[a-zA-Z0-9_\-\.]{10,256}`),
		},
		bare: []*regexp.Regexp{
			// Google API keys
			regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`),
			// JWTs
			regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.(?:eyJ[a-zA-Z0-9_-]+)?\.[a-zA-Z0-9_-]{20,}`),
		},
	}
}

// Redact masks all detected secrets in text.
func (r *SecretRedactor) Redact(text string) string {
	if text == "" {
		return ""
	}

	for _, pattern := range r.labeled {
		text = pattern.ReplaceAllString(text, "${1}"+redacted)
	}
	for _, pattern := range r.bare {
		text = pattern.ReplaceAllString(text, redacted)
	}
	return text
}

var defaultRedactor = NewSecretRedactor()

// Redact masks secrets using the default redactor.
func Redact(text string) string {
	return defaultRedactor.Redact(text)
}
