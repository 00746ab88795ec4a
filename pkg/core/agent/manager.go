package agent

import (
	"fmt"
	"time"

	"lifepath_planner/pkg/core/llm"
)

// Stage names used in the configuration file. Each pipeline stage that can
// call a text-completion service gets its own knobs.
const (
	StageNormalization = "normalization"
	StageEnrichment    = "enrichment"
	StageQuestions     = "question_generation"
	StageSuggestions   = "suggestion_generation"
)

// ProviderDeterministic selects the always-available deterministic branch of a
// stage instead of a remote service.
const ProviderDeterministic = "deterministic"

// StageConfig holds the per-stage service knobs.
type StageConfig struct {
	Provider        string  `yaml:"provider"` // Optional override of ActiveProvider
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// Config is the provider selection surface. ActiveProvider applies to every
// stage unless the stage carries its own override.
type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Stages         map[string]StageConfig `yaml:"stages"`
}

// Manager resolves which provider (if any) serves a given stage.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

// NewManager builds a manager over the known providers. An empty or unknown
// ActiveProvider means every stage runs deterministically.
func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
		},
	}
}

// StageConfig returns the effective knobs for a stage, filling defaults.
func (m *Manager) StageConfig(stage string) StageConfig {
	cfg := m.config.Stages[stage]
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 4096
	}
	return cfg
}

// ProviderForStage resolves the provider serving a stage. The second return is
// false when the stage should run its deterministic branch: explicit
// "deterministic" selection, no provider selected, or missing credentials.
func (m *Manager) ProviderForStage(stage string) (llm.Provider, bool) {
	name := m.config.ActiveProvider
	if cfg, ok := m.config.Stages[stage]; ok && cfg.Provider != "" {
		name = cfg.Provider
	}
	if name == "" || name == ProviderDeterministic {
		return nil, false
	}
	p, ok := m.providers[name]
	if !ok {
		fmt.Printf("[AGENT] Unknown provider '%s' for stage %s, using deterministic branch\n", name, stage)
		return nil, false
	}
	if !p.Available() {
		fmt.Printf("[AGENT] Provider '%s' has no credential, stage %s falls back to deterministic branch\n", name, stage)
		return nil, false
	}
	return p, true
}

// Options builds the provider options map for a stage from its knobs.
func (m *Manager) Options(stage string) map[string]interface{} {
	cfg := m.StageConfig(stage)
	opts := map[string]interface{}{
		"temperature": cfg.Temperature,
		"max_tokens":  cfg.MaxOutputTokens,
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}
	if cfg.Model != "" {
		opts["model"] = cfg.Model
	}
	return opts
}

// Timeout returns the stage timeout as a duration.
func (m *Manager) Timeout(stage string) time.Duration {
	return time.Duration(m.StageConfig(stage).TimeoutSeconds) * time.Second
}

// SetGlobalProvider switches the active provider at runtime.
func (m *Manager) SetGlobalProvider(newProvider string) error {
	if newProvider != ProviderDeterministic {
		if _, ok := m.providers[newProvider]; !ok {
			return fmt.Errorf("provider %s not found", newProvider)
		}
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("Global provider set to: %s\n", newProvider)
	return nil
}

// GetActiveProvider returns the current global provider selection.
func (m *Manager) GetActiveProvider() string {
	if m.config.ActiveProvider == "" {
		return ProviderDeterministic
	}
	return m.config.ActiveProvider
}

// ProviderNames lists the configurable providers plus the deterministic branch.
func (m *Manager) ProviderNames() []string {
	names := []string{ProviderDeterministic}
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}
