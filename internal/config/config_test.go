package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pulse/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every variable the loader reads.
func isolate(t *testing.T) {
	t.Helper()
	for _, name := range append([]string{
		"PULSE_PRESET", "PULSE_MODEL", "PULSE_PROVIDER", "PULSE_LOG_LEVEL", "PULSE_EXPORT_DIR", "OLLAMA_HOST",
	}, security.GeminiKeyEnvVars...) {
		t.Setenv(name, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.API.GetProvider())
	assert.Equal(t, DefaultModel, cfg.Model.Name)
	assert.Equal(t, int32(DefaultThinkingBudget), cfg.Model.ThinkingBudget)
	assert.Equal(t, "monokai", cfg.UI.HighlightStyle)
	assert.True(t, cfg.UI.MouseEnabled())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 2, cfg.RateLimit.BurstSize)
	assert.Equal(t, DefaultExportDir, cfg.Export.Dir)
	assert.Empty(t, cfg.Logging.Level, "file logging is off unless a level is set")
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	t.Setenv("MY_KEY", "AIzaFromEnvironment123")

	path := writeConfig(t, `
api:
  gemini_key: ${MY_KEY}
model:
  name: gemini-2.5-pro
  temperature: 0.2
ui:
  highlight_style: dracula
  mouse_mode: disabled
rate_limit:
  enabled: false
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "AIzaFromEnvironment123", cfg.API.GeminiKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model.Name)
	assert.InDelta(t, 0.2, cfg.Model.Temperature, 1e-6)
	assert.Equal(t, "dracula", cfg.UI.HighlightStyle)
	assert.False(t, cfg.UI.MouseEnabled())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, DefaultMarkdownStyle, cfg.UI.MarkdownStyle, "unset fields keep defaults")
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	isolate(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model.Name)
}

func TestLoadInvalidYAML(t *testing.T) {
	isolate(t)

	_, err := LoadFrom(writeConfig(t, "model: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PULSE_MODEL", "gemini-3-flash-preview")
	t.Setenv("PULSE_LOG_LEVEL", "debug")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("PULSE_EXPORT_DIR", "/tmp/out")

	cfg, err := LoadFrom(writeConfig(t, "model:\n  name: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-3-flash-preview", cfg.Model.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://gpu-box:11434", cfg.API.OllamaBaseURL)
	assert.Equal(t, "/tmp/out", cfg.Export.Dir)
}

func TestPresets(t *testing.T) {
	isolate(t)

	cfg, err := LoadFrom(writeConfig(t, "model:\n  preset: local\n"))
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.API.Provider)
	assert.Equal(t, DefaultOllamaModel, cfg.Model.Name)
	assert.Zero(t, cfg.Model.ThinkingBudget)

	_, err = LoadFrom(writeConfig(t, "model:\n  preset: turbo\n"))
	assert.ErrorContains(t, err, `unknown model preset "turbo"`)

	assert.Equal(t, []string{"flash", "local", "pro"}, ListPresets())
	assert.False(t, DefaultConfig().ApplyPreset("nope"))
}

func TestPresetFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PULSE_PRESET", "flash")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Model.Name)
	assert.Equal(t, "flash", cfg.Model.Preset)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		env     string
		wantErr error
	}{
		{"gemini without key", func(*Config) {}, "", ErrMissingAuth},
		{"gemini with env key", func(*Config) {}, "AIzaSomething1234", nil},
		{"gemini with config key", func(c *Config) { c.API.GeminiKey = "AIzaSomething1234" }, "", nil},
		{"ollama needs no key", func(c *Config) { c.API.Provider = ProviderOllama }, "", nil},
		{"ollama without model", func(c *Config) {
			c.API.Provider = ProviderOllama
			c.Model.Name = ""
		}, "", ErrMissingModel},
		{"gemini without model", func(c *Config) { c.Model.Name = "" }, "AIzaSomething1234", ErrMissingModel},
		{"unknown provider", func(c *Config) { c.API.Provider = "openai" }, "", ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.env != "" {
				t.Setenv("GEMINI_API_KEY", tt.env)
			}

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestDetectProvider(t *testing.T) {
	assert.Equal(t, ProviderGemini, DetectProvider("gemini-3-pro-preview"))
	assert.Equal(t, ProviderGemini, DetectProvider("Gemini-2.5-Pro"))
	assert.Equal(t, ProviderOllama, DetectProvider("qwen2.5-coder"))
}

func TestGetConfigPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "pulse", "config.yaml"), GetConfigPath())

	got, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pulse"), got)
}
