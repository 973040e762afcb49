package config

import (
	"sort"
	"strings"
)

// ModelPreset defines a model preset configuration.
type ModelPreset struct {
	Provider       string
	Name           string
	ThinkingBudget int32
}

// ModelPresets contains predefined model configurations.
var ModelPresets = map[string]ModelPreset{
	"pro": {
		Provider:       ProviderGemini,
		Name:           "gemini-3-pro-preview",
		ThinkingBudget: DefaultThinkingBudget,
	},
	"flash": {
		Provider:       ProviderGemini,
		Name:           "gemini-3-flash-preview",
		ThinkingBudget: 1024,
	},
	"local": {
		Provider: ProviderOllama,
		Name:     DefaultOllamaModel,
	},
}

// ApplyPreset applies a model preset to the config.
// Returns false if the preset is unknown.
func (c *Config) ApplyPreset(preset string) bool {
	p, ok := ModelPresets[preset]
	if !ok {
		return false
	}

	c.Model.Preset = preset
	c.Model.Name = p.Name
	c.Model.ThinkingBudget = p.ThinkingBudget
	c.API.Provider = p.Provider
	return true
}

// ListPresets returns all available preset names, sorted.
func ListPresets() []string {
	presets := make([]string, 0, len(ModelPresets))
	for name := range ModelPresets {
		presets = append(presets, name)
	}
	sort.Strings(presets)
	return presets
}

// DetectProvider determines the provider from a model name.
// Anything that is not a Gemini model is assumed to be served by Ollama.
func DetectProvider(modelName string) string {
	if strings.HasPrefix(strings.ToLower(modelName), "gemini") {
		return ProviderGemini
	}
	return ProviderOllama
}
