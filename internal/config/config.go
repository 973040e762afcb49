package config

// Config represents the main application configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Model     ModelConfig     `yaml:"model"`
	UI        UIConfig        `yaml:"ui"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Export    ExportConfig    `yaml:"export"`

	// Runtime version information
	Version string `yaml:"-"`
}

// Supported providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// APIConfig holds API-related settings.
type APIConfig struct {
	// Active provider: gemini or ollama (default: gemini)
	Provider string `yaml:"provider"`

	GeminiKey string `yaml:"gemini_key,omitempty"`

	// Optional Gemini endpoint override (proxies, tests)
	GeminiBaseURL string `yaml:"gemini_base_url,omitempty"`

	// Ollama server URL (default: http://localhost:11434)
	OllamaBaseURL string `yaml:"ollama_base_url,omitempty"`
	OllamaKey     string `yaml:"ollama_key,omitempty"` // Optional, for remote Ollama servers with auth
}

// GetProvider returns the active provider name.
func (c *APIConfig) GetProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	return ProviderGemini
}

// ModelConfig holds model-related settings.
type ModelConfig struct {
	Preset string `yaml:"preset,omitempty"` // pro, flash, local

	Name            string  `yaml:"name"`
	Temperature     float32 `yaml:"temperature"`       // 0 = provider default
	MaxOutputTokens int32   `yaml:"max_output_tokens"` // 0 = provider default
	ThinkingBudget  int32   `yaml:"thinking_budget"`   // 0 = disabled
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	HighlightStyle string `yaml:"highlight_style"` // chroma style: monokai, dracula, github-dark, native
	MarkdownStyle  string `yaml:"markdown_style"`  // glamour standard style: dark, light, notty
	MouseMode      string `yaml:"mouse_mode"`      // "enabled" (default) or "disabled"
	ShowWelcome    bool   `yaml:"show_welcome"`
}

// MouseEnabled reports whether mouse support should be turned on.
func (c *UIConfig) MouseEnabled() bool {
	return c.MouseMode != "disabled"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error; empty disables file logging
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	BurstSize         int  `yaml:"burst_size"`
}

// ExportConfig holds settings for writing projects to disk.
type ExportConfig struct {
	Dir string `yaml:"dir"` // each project goes to <dir>/<title slug>
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Provider:      ProviderGemini,
			OllamaBaseURL: DefaultOllamaBaseURL,
		},
		Model: ModelConfig{
			Name:           DefaultModel,
			ThinkingBudget: DefaultThinkingBudget,
		},
		UI: UIConfig{
			HighlightStyle: DefaultHighlightStyle,
			MarkdownStyle:  DefaultMarkdownStyle,
			MouseMode:      "enabled",
			ShowWelcome:    true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: DefaultRequestsPerMinute,
			BurstSize:         DefaultBurstSize,
		},
		Export: ExportConfig{
			Dir: DefaultExportDir,
		},
	}
}
