package semantic

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/povarna/ai-output-validator/internal/models"
)

const fallbackScore = 0.5

// Fallback builds the degraded semantic result used when the LLM cannot be
// reached or returns garbage. It relies only on structural signal and a few
// cheap local checks, so the caller still receives a complete result. The
// unavailability note alone does not fail the verdict; local findings do.
func Fallback(valCtx models.ValidationContext, structural models.StructuralResult, reason string) *models.SemanticResult {
	issues := []string{fmt.Sprintf("Semantic validation degraded: %s", reason)}
	suggestions := []string{"Retry once the content-quality service is reachable"}

	findings, fixes := localFindings(valCtx, structural)
	issues = append(issues, findings...)
	suggestions = append(suggestions, fixes...)

	return &models.SemanticResult{
		IsSemanticallyValid: len(findings) == 0,
		SemanticScore:       fallbackScore,
		Issues:              issues,
		Suggestions:         suggestions,
		Degraded:            true,
	}
}

// localFindings is the heuristic-only content pass: structural carry-over,
// empty text fields, and per-type coarse length floors.
func localFindings(valCtx models.ValidationContext, structural models.StructuralResult) ([]string, []string) {
	var issues []string
	var suggestions []string

	if len(structural.Errors) > 0 {
		issues = append(issues, fmt.Sprintf("Structural validation reported %d error(s)", len(structural.Errors)))
		suggestions = append(suggestions, "Fix the structural errors before assessing meaning")
	}

	fields := make([]string, 0, len(valCtx.Content))
	for field := range valCtx.Content {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if s, ok := valCtx.Content[field].(string); ok && strings.TrimSpace(s) == "" {
			issues = append(issues, fmt.Sprintf("Field '%s' is empty", field))
			suggestions = append(suggestions, fmt.Sprintf("Provide meaningful content for '%s'", field))
		}
	}

	switch valCtx.Type {
	case models.TypeRecommendation:
		if s, ok := valCtx.Content["recommendation_text"].(string); ok && utf8.RuneCountInString(s) < 20 {
			issues = append(issues, "Recommendation text is too short")
			suggestions = append(suggestions, "Provide more detailed recommendations (at least 20 characters)")
		}
	case models.TypeSummary:
		if s, ok := valCtx.Content["summary"].(string); ok && utf8.RuneCountInString(s) < 30 {
			issues = append(issues, "Summary is too short")
			suggestions = append(suggestions, "Provide a more comprehensive summary (at least 30 characters)")
		}
	}

	return issues, suggestions
}
