package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/povarna/ai-output-validator/internal/config"
	"github.com/povarna/ai-output-validator/internal/llm"
	"github.com/povarna/ai-output-validator/internal/models"
	"github.com/rs/zerolog"
)

// Assessor runs the content-quality stage against an external LLM. Every
// call carries a hard deadline; timeouts, transport errors, and unparseable
// responses all degrade to the local fallback instead of propagating.
type Assessor struct {
	cfg       *config.ValidatorConfig
	templates map[string]*template.Template
	timeout   time.Duration
	llmClient llm.Client
	logger    *zerolog.Logger
}

// promptData is the template context for the per-type prompts.
type promptData struct {
	Level              string
	Content            string
	Schema             string
	StructuralFindings string
}

// assessorResponse is the JSON shape the LLM is asked to return. Pointers
// let absent fields be told apart from explicit values.
type assessorResponse struct {
	IsSemanticallyValid *bool    `json:"is_semantically_valid"`
	SemanticScore       *float64 `json:"semantic_score"`
	Issues              []string `json:"issues"`
	Suggestions         []string `json:"suggestions"`
}

func NewAssessor(cfg *config.ValidatorConfig, llmClient llm.Client, logger *zerolog.Logger) (*Assessor, error) {
	templates := make(map[string]*template.Template, len(cfg.Semantic.Validators))
	for _, v := range cfg.Semantic.Validators {
		tmpl, err := template.New(v.Name).Parse(v.Prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt template for validator %s: %w", v.Name, err)
		}
		templates[v.Name] = tmpl
	}

	return &Assessor{
		cfg:       cfg,
		templates: templates,
		timeout:   time.Duration(cfg.Semantic.TimeoutSeconds) * time.Second,
		llmClient: llmClient,
		logger:    logger,
	}, nil
}

// ShouldAssess is the invocation policy for the semantic stage: it runs when
// the structural stage passed, and at strict level even when it did not, so
// callers still get content feedback alongside the structural errors.
func ShouldAssess(level models.ValidationLevel, structural models.StructuralResult) bool {
	if level == models.LevelStructureOnly {
		return false
	}
	return structural.IsStructurallyValid || level == models.LevelStrict
}

// Assess asks the LLM for a quality verdict on the payload. The returned
// result is always complete and well-formed; failure of any kind collapses
// into the degraded fallback.
func (a *Assessor) Assess(ctx context.Context, valCtx models.ValidationContext, structural models.StructuralResult) *models.SemanticResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	promptCfg := a.cfg.PromptFor(string(valCtx.Type))

	prompt, err := a.buildPrompt(promptCfg.Name, valCtx, structural)
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("validator", promptCfg.Name).
			Msg("failed to render prompt template")
		return Fallback(valCtx, structural, "prompt construction failed")
	}

	request := llm.Request{
		Prompt:      prompt,
		MaxTokens:   promptCfg.Model.MaxTokens,
		Temperature: promptCfg.Model.Temperature,
	}

	var resp *llm.Response
	if promptCfg.Model.Retry {
		resp, err = a.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = a.llmClient.InvokeModel(ctx, request)
	}

	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("validator", promptCfg.Name).
			Str("request_id", valCtx.RequestID).
			Msg("LLM call failed, degrading to local fallback")
		return Fallback(valCtx, structural, "content-quality service unreachable")
	}

	content := stripCodeFence(resp.Content)
	var llmResponse assessorResponse
	if err := json.Unmarshal([]byte(content), &llmResponse); err != nil {
		a.logger.Warn().
			Err(err).
			Str("validator", promptCfg.Name).
			Str("content", resp.Content).
			Msg("failed to deserialize LLM response, degrading to local fallback")
		return Fallback(valCtx, structural, "content-quality service returned an unreadable response")
	}

	result := a.normalize(llmResponse, valCtx.Level)

	a.logger.Info().
		Str("validator", promptCfg.Name).
		Str("request_id", valCtx.RequestID).
		Float64("score", result.SemanticScore).
		Bool("valid", result.IsSemanticallyValid).
		Msg("semantic assessment completed")

	return result
}

// normalize turns the raw LLM response into a well-formed SemanticResult:
// the score is clamped to [0,1], absent lists default to empty, and the
// verdict is gated by the level's acceptance threshold.
func (a *Assessor) normalize(resp assessorResponse, level models.ValidationLevel) *models.SemanticResult {
	score := 1.0
	if resp.SemanticScore != nil {
		score = *resp.SemanticScore
	}
	if score < 0.0 {
		score = 0.0
	}
	if score > 1.0 {
		score = 1.0
	}

	valid := score >= ScoreThreshold(level)
	if resp.IsSemanticallyValid != nil && !*resp.IsSemanticallyValid {
		valid = false
	}

	issues := resp.Issues
	if issues == nil {
		issues = []string{}
	}
	suggestions := resp.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return &models.SemanticResult{
		IsSemanticallyValid: valid,
		SemanticScore:       score,
		Issues:              issues,
		Suggestions:         suggestions,
	}
}

// ScoreThreshold maps a validation level to the minimum acceptable quality
// score.
func ScoreThreshold(level models.ValidationLevel) float64 {
	switch level {
	case models.LevelBasic:
		return 0.5
	case models.LevelStrict:
		return 0.75
	default:
		return 0.6
	}
}

func (a *Assessor) buildPrompt(name string, valCtx models.ValidationContext, structural models.StructuralResult) (string, error) {
	tmpl, ok := a.templates[name]
	if !ok {
		return "", fmt.Errorf("no template for validator %s", name)
	}

	content, err := json.Marshal(valCtx.Content)
	if err != nil {
		return "", fmt.Errorf("failed to serialize content: %w", err)
	}

	var findings string
	if len(structural.Errors) > 0 {
		raw, err := json.Marshal(structural.Errors)
		if err != nil {
			return "", fmt.Errorf("failed to serialize structural errors: %w", err)
		}
		findings = string(raw)
	}

	data := promptData{
		Level:              string(valCtx.Level),
		Content:            string(content),
		Schema:             string(valCtx.Schema),
		StructuralFindings: findings,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// stripCodeFence unwraps a response the model wrapped in a markdown code
// block. Without a complete fence the content is returned untouched.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	nl := strings.Index(content, "\n")
	end := strings.LastIndex(content, "```")
	if nl == -1 || end <= nl {
		return content
	}
	return strings.TrimSpace(content[nl+1 : end])
}
