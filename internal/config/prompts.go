package config

// Compiled-in prompt templates, one per validation type. The YAML file can
// override any of them; a config that names only some types still gets the
// generic fallback through PromptFor.

const genericPrompt = `You are a validation assistant specialized in verifying AI outputs.
Assess this AI output with {{.Level}} strictness.

Schema: {{.Schema}}
Data: {{.Content}}
{{if .StructuralFindings}}
Structural validation found these errors:
{{.StructuralFindings}}
Consider these when assessing meaning.
{{end}}
Check if the response is coherent, well-structured, and appropriate.

Respond ONLY in JSON: {"is_semantically_valid": <bool>, "semantic_score": <float between 0.0 and 1.0>, "issues": ["<string>"], "suggestions": ["<string>"]}`

const recommendationPrompt = `You are a validation assistant specialized in verifying AI outputs.
Assess this recommendation-type AI output with {{.Level}} strictness.

Schema: {{.Schema}}
Data: {{.Content}}
{{if .StructuralFindings}}
Structural validation found these errors:
{{.StructuralFindings}}
Consider these when assessing meaning.
{{end}}
Check if the recommendations are relevant, specific, and actionable.

Respond ONLY in JSON: {"is_semantically_valid": <bool>, "semantic_score": <float between 0.0 and 1.0>, "issues": ["<string>"], "suggestions": ["<string>"]}`

const summaryPrompt = `You are a validation assistant specialized in verifying AI outputs.
Assess this summary-type AI output with {{.Level}} strictness.

Schema: {{.Schema}}
Data: {{.Content}}
{{if .StructuralFindings}}
Structural validation found these errors:
{{.StructuralFindings}}
Consider these when assessing meaning.
{{end}}
Check if the summary accurately captures the key points and stays faithful to the source.

Respond ONLY in JSON: {"is_semantically_valid": <bool>, "semantic_score": <float between 0.0 and 1.0>, "issues": ["<string>"], "suggestions": ["<string>"]}`

const classificationPrompt = `You are a validation assistant specialized in verifying AI outputs.
Assess this classification-type AI output with {{.Level}} strictness.

Schema: {{.Schema}}
Data: {{.Content}}
{{if .StructuralFindings}}
Structural validation found these errors:
{{.StructuralFindings}}
Consider these when assessing meaning.
{{end}}
Check if the classification is accurate, well-justified, and appropriate.

Respond ONLY in JSON: {"is_semantically_valid": <bool>, "semantic_score": <float between 0.0 and 1.0>, "issues": ["<string>"], "suggestions": ["<string>"]}`

func defaultPromptConfigurations() []PromptConfiguration {
	return []PromptConfiguration{
		{Name: "generic", Description: "Coherence and structure checks for any AI output", Prompt: genericPrompt},
		{Name: "recommendation", Description: "Relevance and actionability checks for recommendations", Prompt: recommendationPrompt},
		{Name: "summary", Description: "Faithfulness checks for summaries", Prompt: summaryPrompt},
		{Name: "classification", Description: "Accuracy checks for classification outputs", Prompt: classificationPrompt},
	}
}

// DefaultValidatorConfig is the configuration used when no YAML file is
// present.
func DefaultValidatorConfig() *ValidatorConfig {
	cfg := &ValidatorConfig{}
	applyDefaults(cfg)
	return cfg
}

// PromptFor returns the prompt configuration for a validation type, falling
// back to the generic validator for unknown types.
func (c *ValidatorConfig) PromptFor(name string) PromptConfiguration {
	var generic PromptConfiguration

	for _, v := range c.Semantic.Validators {
		if v.Name == name {
			return v
		}
		if v.Name == "generic" {
			generic = v
		}
	}

	return generic
}
