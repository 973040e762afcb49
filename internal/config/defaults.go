package config

import "time"

// Default configuration values.
const (
	DefaultModel          = "gemini-3-pro-preview"
	DefaultThinkingBudget = 4000

	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "qwen2.5-coder"

	DefaultHighlightStyle = "monokai"
	DefaultMarkdownStyle  = "dark"

	// Rate limiting
	DefaultRequestsPerMinute = 10
	DefaultBurstSize         = 2

	// Projects are exported below the working directory
	DefaultExportDir = "pulse-projects"

	// Simulated voice input
	DefaultListenDuration = 3 * time.Second
)
