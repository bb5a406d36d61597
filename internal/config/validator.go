package config

import (
	"fmt"
	"os"
	"text/template"

	"github.com/povarna/ai-output-validator/internal/schema"
	"gopkg.in/yaml.v3"
)

// ValidatorConfig is the YAML-backed tuning for the semantic stage and the
// name heuristic.
type ValidatorConfig struct {
	Semantic      Semantic               `yaml:"semantic"`
	NameHeuristic schema.HeuristicConfig `yaml:"name_heuristic"`
}

type Semantic struct {
	DefaultModel   ModelConfig           `yaml:"default_model"`
	TimeoutSeconds int                   `yaml:"timeout_seconds"`
	Validators     []PromptConfiguration `yaml:"validators"`
}

type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

// PromptConfiguration binds a validation type to its prompt template.
type PromptConfiguration struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Prompt      string       `yaml:"prompt"`
	Model       *ModelConfig `yaml:"model"`
}

// LoadValidatorConfig reads the YAML tuning file. A missing file is not an
// error: the compiled-in defaults cover every validation type.
func LoadValidatorConfig() (*ValidatorConfig, error) {

	path := os.Getenv("VALIDATOR_CONFIG_PATH")
	if path == "" {
		path = "configs/validator.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultValidatorConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg ValidatorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *ValidatorConfig) {
	if cfg.Semantic.DefaultModel.MaxTokens == 0 {
		cfg.Semantic.DefaultModel.MaxTokens = 512
	}
	if cfg.Semantic.TimeoutSeconds == 0 {
		cfg.Semantic.TimeoutSeconds = 10
	}
	if len(cfg.Semantic.Validators) == 0 {
		cfg.Semantic.Validators = defaultPromptConfigurations()
	}

	for i := range cfg.Semantic.Validators {
		v := &cfg.Semantic.Validators[i]
		if v.Model == nil {
			model := cfg.Semantic.DefaultModel
			v.Model = &model
			continue
		}
		if v.Model.MaxTokens == 0 {
			v.Model.MaxTokens = cfg.Semantic.DefaultModel.MaxTokens
		}
		if v.Model.Temperature == 0 {
			v.Model.Temperature = cfg.Semantic.DefaultModel.Temperature
		}
	}
}

func (c *ValidatorConfig) Validate() error {
	if len(c.Semantic.Validators) == 0 {
		return fmt.Errorf("invalid config: no validators configured")
	}

	seen := make(map[string]struct{})
	hasGeneric := false

	for _, v := range c.Semantic.Validators {
		if v.Name == "" {
			return fmt.Errorf("invalid config: validator missing name")
		}
		if _, ok := seen[v.Name]; ok {
			return fmt.Errorf("invalid config: duplicate validator name %q", v.Name)
		}
		seen[v.Name] = struct{}{}

		if v.Name == "generic" {
			hasGeneric = true
		}

		if v.Prompt == "" {
			return fmt.Errorf("invalid config: validator %q missing prompt", v.Name)
		}
		if _, err := template.New(v.Name).Parse(v.Prompt); err != nil {
			return fmt.Errorf("invalid config: validator %q has invalid prompt template: %w", v.Name, err)
		}

		if v.Model.MaxTokens < 0 {
			return fmt.Errorf("invalid config: validator %q has negative max_tokens", v.Name)
		}
		if v.Model.Temperature < 0.0 || v.Model.Temperature > 1.0 {
			return fmt.Errorf("invalid config: validator %q has invalid temperature %f", v.Name, v.Model.Temperature)
		}
	}

	if !hasGeneric {
		return fmt.Errorf("invalid config: the generic validator is required as the fallback")
	}

	if c.Semantic.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid config: negative timeout_seconds")
	}

	return nil
}
