package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadValidatorConfig_Success(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "validator.yaml")

	configContent := `semantic:
  default_model:
    max_tokens: 256
    temperature: 0.0
    retry: true
  timeout_seconds: 5

  validators:
    - name: generic
      description: "Fallback checks"
      prompt: |
        Assess with {{.Level}} strictness: {{.Content}}
        {"is_semantically_valid": <bool>, "semantic_score": <float>}
      model:
        max_tokens: 128
        retry: false

    - name: summary
      description: "Summary checks"
      prompt: |
        Schema: {{.Schema}}
        Data: {{.Content}}
        {"is_semantically_valid": <bool>, "semantic_score": <float>}

name_heuristic:
  min_length: 3
  aliases:
    - name
    - author
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Set env var to point to test config
	os.Setenv("VALIDATOR_CONFIG_PATH", configPath)
	defer os.Unsetenv("VALIDATOR_CONFIG_PATH")

	// Load config
	cfg, err := LoadValidatorConfig()
	if err != nil {
		t.Fatalf("LoadValidatorConfig() failed: %v", err)
	}

	// Verify structure
	if len(cfg.Semantic.Validators) != 2 {
		t.Errorf("Expected 2 validators, got %d", len(cfg.Semantic.Validators))
	}
	if cfg.Semantic.TimeoutSeconds != 5 {
		t.Errorf("Expected timeout_seconds=5, got %d", cfg.Semantic.TimeoutSeconds)
	}

	// Check default model
	if cfg.Semantic.DefaultModel.MaxTokens != 256 {
		t.Errorf("Expected default max_tokens=256, got %d", cfg.Semantic.DefaultModel.MaxTokens)
	}
	if !cfg.Semantic.DefaultModel.Retry {
		t.Error("Expected default retry=true")
	}

	// Check first validator (has model override)
	generic := cfg.Semantic.Validators[0]
	if generic.Name != "generic" {
		t.Errorf("Expected validator name 'generic', got '%s'", generic.Name)
	}
	if generic.Model.MaxTokens != 128 {
		t.Errorf("Expected generic max_tokens=128, got %d", generic.Model.MaxTokens)
	}
	if generic.Model.Retry {
		t.Error("Expected generic retry=false")
	}

	// Check second validator (no model override - should use defaults)
	summary := cfg.Semantic.Validators[1]
	if summary.Model == nil {
		t.Fatal("Expected summary.Model to be populated with defaults")
	}
	if summary.Model.MaxTokens != 256 {
		t.Errorf("Expected summary max_tokens=256 (default), got %d", summary.Model.MaxTokens)
	}
	if !summary.Model.Retry {
		t.Error("Expected summary retry=true (default)")
	}

	// Check name heuristic section
	if cfg.NameHeuristic.MinLength != 3 {
		t.Errorf("Expected name heuristic min_length=3, got %d", cfg.NameHeuristic.MinLength)
	}
	if len(cfg.NameHeuristic.Aliases) != 2 {
		t.Errorf("Expected 2 aliases, got %d", len(cfg.NameHeuristic.Aliases))
	}
}

func TestLoadValidatorConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	os.Setenv("VALIDATOR_CONFIG_PATH", "/nonexistent/path/validator.yaml")
	defer os.Unsetenv("VALIDATOR_CONFIG_PATH")

	cfg, err := LoadValidatorConfig()
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got error: %v", err)
	}

	if len(cfg.Semantic.Validators) != 4 {
		t.Errorf("Expected 4 default validators, got %d", len(cfg.Semantic.Validators))
	}
	if cfg.Semantic.TimeoutSeconds != 10 {
		t.Errorf("Expected default timeout_seconds=10, got %d", cfg.Semantic.TimeoutSeconds)
	}
	if cfg.Semantic.DefaultModel.MaxTokens != 512 {
		t.Errorf("Expected default max_tokens=512, got %d", cfg.Semantic.DefaultModel.MaxTokens)
	}
	if cfg.PromptFor("generic").Prompt == "" {
		t.Error("Expected the generic default prompt to be present")
	}
}

func TestLoadValidatorConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// Invalid YAML
	invalidContent := `semantic:
  validators:
    - name: test
      prompt: "test"
      invalid_indent:
    wrong_level
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	os.Setenv("VALIDATOR_CONFIG_PATH", configPath)
	defer os.Unsetenv("VALIDATOR_CONFIG_PATH")

	_, err := LoadValidatorConfig()
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}

	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Expected 'failed to parse YAML' error, got: %v", err)
	}
}

func TestLoadValidatorConfig_RejectsConfigWithoutGeneric(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "validator.yaml")

	configContent := `semantic:
  validators:
    - name: summary
      prompt: "Assess: {{.Content}}"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	os.Setenv("VALIDATOR_CONFIG_PATH", configPath)
	defer os.Unsetenv("VALIDATOR_CONFIG_PATH")

	_, err := LoadValidatorConfig()
	if err == nil {
		t.Error("Expected error for config without a generic validator")
	}

	if !strings.Contains(err.Error(), "generic validator is required") {
		t.Errorf("Expected 'generic validator is required' error, got: %v", err)
	}
}

func TestValidate_MissingName(t *testing.T) {
	cfg := &ValidatorConfig{
		Semantic: Semantic{
			Validators: []PromptConfiguration{
				{Name: "", Prompt: "test", Model: &ModelConfig{}},
			},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected validation error for missing name")
	}

	if !strings.Contains(err.Error(), "missing name") {
		t.Errorf("Expected 'missing name' error, got: %v", err)
	}
}

func TestValidate_MissingPrompt(t *testing.T) {
	cfg := &ValidatorConfig{
		Semantic: Semantic{
			Validators: []PromptConfiguration{
				{Name: "generic", Prompt: "", Model: &ModelConfig{}},
			},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected validation error for missing prompt")
	}

	if !strings.Contains(err.Error(), "missing prompt") {
		t.Errorf("Expected 'missing prompt' error, got: %v", err)
	}
}

func TestValidate_InvalidPromptTemplate(t *testing.T) {
	cfg := &ValidatorConfig{
		Semantic: Semantic{
			Validators: []PromptConfiguration{
				{Name: "generic", Prompt: "{{.InvalidSyntax", Model: &ModelConfig{}},
			},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected validation error for invalid template syntax")
	}

	if !strings.Contains(err.Error(), "invalid prompt template") {
		t.Errorf("Expected 'invalid prompt template' error, got: %v", err)
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	cfg := &ValidatorConfig{
		Semantic: Semantic{
			Validators: []PromptConfiguration{
				{Name: "generic", Prompt: "test1", Model: &ModelConfig{}},
				{Name: "generic", Prompt: "test2", Model: &ModelConfig{}},
			},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected validation error for duplicate names")
	}

	if !strings.Contains(err.Error(), "duplicate validator name") {
		t.Errorf("Expected 'duplicate validator name' error, got: %v", err)
	}
}

func TestValidate_NegativeMaxTokens(t *testing.T) {
	cfg := &ValidatorConfig{
		Semantic: Semantic{
			Validators: []PromptConfiguration{
				{Name: "generic", Prompt: "test", Model: &ModelConfig{MaxTokens: -100}},
			},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected validation error for negative max_tokens")
	}

	if !strings.Contains(err.Error(), "negative max_tokens") {
		t.Errorf("Expected 'negative max_tokens' error, got: %v", err)
	}
}

func TestValidate_InvalidTemperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
	}{
		{"negative", -0.1},
		{"too high", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ValidatorConfig{
				Semantic: Semantic{
					Validators: []PromptConfiguration{
						{Name: "generic", Prompt: "test", Model: &ModelConfig{Temperature: tt.temperature}},
					},
				},
			}

			err := cfg.Validate()
			if err == nil {
				t.Errorf("Expected validation error for temperature=%f", tt.temperature)
			}

			if !strings.Contains(err.Error(), "invalid temperature") {
				t.Errorf("Expected 'invalid temperature' error, got: %v", err)
			}
		})
	}
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := DefaultValidatorConfig()
	cfg.Semantic.TimeoutSeconds = -1

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected validation error for negative timeout")
	}

	if !strings.Contains(err.Error(), "negative timeout_seconds") {
		t.Errorf("Expected 'negative timeout_seconds' error, got: %v", err)
	}
}

func TestApplyDefaults_PopulatesValidators(t *testing.T) {
	cfg := &ValidatorConfig{}

	applyDefaults(cfg)

	if cfg.Semantic.DefaultModel.MaxTokens != 512 {
		t.Errorf("Expected default max_tokens=512, got %d", cfg.Semantic.DefaultModel.MaxTokens)
	}
	if cfg.Semantic.TimeoutSeconds != 10 {
		t.Errorf("Expected default timeout_seconds=10, got %d", cfg.Semantic.TimeoutSeconds)
	}
	if len(cfg.Semantic.Validators) != 4 {
		t.Fatalf("Expected 4 default validators, got %d", len(cfg.Semantic.Validators))
	}
	for _, v := range cfg.Semantic.Validators {
		if v.Model == nil {
			t.Errorf("Expected validator %q to get the default model", v.Name)
		}
	}
}

func TestApplyDefaults_MergesPartialOverrides(t *testing.T) {
	cfg := &ValidatorConfig{
		Semantic: Semantic{
			DefaultModel: ModelConfig{
				MaxTokens:   256,
				Temperature: 0.5,
				Retry:       true,
			},
			Validators: []PromptConfiguration{
				{
					Name:   "generic",
					Prompt: "test",
					Model: &ModelConfig{
						MaxTokens: 1024, // Only override max_tokens
					},
				},
			},
		},
	}

	applyDefaults(cfg)

	v := cfg.Semantic.Validators[0]
	if v.Model.MaxTokens != 1024 {
		t.Errorf("Expected max_tokens=1024 (override), got %d", v.Model.MaxTokens)
	}
	if v.Model.Temperature != 0.5 {
		t.Errorf("Expected temperature=0.5 (merged from default), got %f", v.Model.Temperature)
	}
}

func TestPromptFor_FallsBackToGeneric(t *testing.T) {
	cfg := DefaultValidatorConfig()

	if got := cfg.PromptFor("summary").Name; got != "summary" {
		t.Errorf("Expected the summary validator, got %q", got)
	}
	if got := cfg.PromptFor("poem").Name; got != "generic" {
		t.Errorf("Expected fallback to generic for unknown type, got %q", got)
	}
}
