package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"pulse/internal/security"

	"gopkg.in/yaml.v3"
)

const appDirName = "pulse"

// Load loads configuration from the default config file and environment variables.
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom loads configuration from path (optional) and environment variables.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	if cfg.Model.Preset != "" && !cfg.ApplyPreset(cfg.Model.Preset) {
		return nil, fmt.Errorf("unknown model preset %q (available: %v)", cfg.Model.Preset, ListPresets())
	}

	loadFromEnv(cfg)

	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appDirName, "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", appDirName, "config.yaml")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
	}

	return filepath.Join(homeDir, ".config", appDirName, "config.yaml")
}

// GetConfigPath returns the path to the default config file.
func GetConfigPath() string {
	return getConfigPath()
}

// GetConfigDir returns the directory holding the default config file.
func GetConfigDir() (string, error) {
	path := getConfigPath()
	if path == "" {
		return "", fmt.Errorf("could not determine config directory")
	}
	return filepath.Dir(path), nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadFromEnv applies environment overrides. API keys are resolved later by
// the security package so their source can be reported.
func loadFromEnv(cfg *Config) {
	if preset := os.Getenv("PULSE_PRESET"); preset != "" {
		cfg.ApplyPreset(preset)
	}

	if model := os.Getenv("PULSE_MODEL"); model != "" {
		cfg.Model.Name = model
	}

	if provider := os.Getenv("PULSE_PROVIDER"); provider != "" {
		cfg.API.Provider = provider
	}

	if level := os.Getenv("PULSE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if dir := os.Getenv("PULSE_EXPORT_DIR"); dir != "" {
		cfg.Export.Dir = dir
	}

	if baseURL := os.Getenv("OLLAMA_HOST"); baseURL != "" {
		cfg.API.OllamaBaseURL = baseURL
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.API.GetProvider() {
	case ProviderGemini:
		if !security.GetGeminiKey(c.API.GeminiKey).IsSet() {
			return ErrMissingAuth
		}
	case ProviderOllama:
		if c.Model.Name == "" {
			return ErrMissingModel
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.API.Provider)
	}

	if c.Model.Name == "" {
		return ErrMissingModel
	}
	return nil
}

// ConfigError is a configuration validation failure.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrMissingAuth     ConfigError = "missing authentication: set GEMINI_API_KEY (or API_KEY) or api.gemini_key in the config file"
	ErrMissingModel    ConfigError = "missing model name: set model.name or PULSE_MODEL"
	ErrUnknownProvider ConfigError = "unknown provider (expected gemini or ollama)"
)
