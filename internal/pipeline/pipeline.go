package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/povarna/ai-output-validator/internal/models"
	"github.com/povarna/ai-output-validator/internal/schema"
	"github.com/povarna/ai-output-validator/internal/semantic"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=pipeline.go -destination=mocks/mocks.go -package=mocks

// SchemaCompiler turns a raw schema description into runtime validators.
type SchemaCompiler interface {
	Compile(description []byte) (*schema.CompiledSchema, error)
}

// StructuralChecker applies compiled validators to a payload.
type StructuralChecker interface {
	Validate(compiled *schema.CompiledSchema, payload map[string]any) models.StructuralResult
}

// SemanticAssessor runs the content-quality stage.
type SemanticAssessor interface {
	Assess(ctx context.Context, valCtx models.ValidationContext, structural models.StructuralResult) *models.SemanticResult
}

// Pipeline chains schema compilation, the structural stage, and the optional
// semantic stage into one report. Instances are safe for concurrent use: all
// state is read-only after construction.
type Pipeline struct {
	compiler        SchemaCompiler
	structural      StructuralChecker
	assessor        SemanticAssessor
	semanticEnabled bool
	logger          *zerolog.Logger
}

func NewPipeline(
	compiler SchemaCompiler,
	structural StructuralChecker,
	assessor SemanticAssessor,
	semanticEnabled bool,
	logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		compiler:        compiler,
		structural:      structural,
		assessor:        assessor,
		semanticEnabled: semanticEnabled,
		logger:          logger,
	}
}

// Run produces the validation report for one request. The caller always gets
// a complete report: schema problems become a schema_error entry, semantic
// trouble degrades inside the assessor, and only the semantic stage can block,
// bounded by its own deadline.
func (p *Pipeline) Run(ctx context.Context, valCtx models.ValidationContext) *models.ValidationReport {
	now := time.Now()
	p.logger.Info().
		Str("request_id", valCtx.RequestID).
		Str("validation_type", string(valCtx.Type)).
		Str("validation_level", string(valCtx.Level)).
		Msg("starting validation")

	compiled, err := p.compiler.Compile(valCtx.Schema)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("request_id", valCtx.RequestID).
			Msg("schema compilation failed")

		report := compilationReport(err)
		report.ProcessingTimeMs = elapsedMs(now)
		return report
	}

	structuralResult := p.structural.Validate(compiled, valCtx.Content)

	var semanticResult *models.SemanticResult
	if p.semanticEnabled && p.assessor != nil && semantic.ShouldAssess(valCtx.Level, structuralResult) {
		semanticResult = p.assessor.Assess(ctx, valCtx, structuralResult)
	}

	report := &models.ValidationReport{
		IsValid:          structuralResult.IsStructurallyValid && (semanticResult == nil || semanticResult.IsSemanticallyValid),
		Structural:       structuralResult,
		Semantic:         semanticResult,
		ProcessingTimeMs: elapsedMs(now),
	}

	p.logger.Info().
		Str("request_id", valCtx.RequestID).
		Bool("is_valid", report.IsValid).
		Int("structural_errors", len(structuralResult.Errors)).
		Bool("semantic_attempted", semanticResult != nil).
		Msg("validation complete")

	return report
}

// compilationReport maps a schema compilation failure to an invalid report
// with a single schema_error entry; the semantic stage is skipped entirely.
func compilationReport(err error) *models.ValidationReport {
	loc := "schema"
	var compErr *schema.CompilationError
	if errors.As(err, &compErr) && compErr.Field != "" {
		loc = compErr.Field
	}

	return &models.ValidationReport{
		IsValid: false,
		Structural: models.StructuralResult{
			IsStructurallyValid: false,
			Errors: []models.ValidationError{{
				Loc:        loc,
				Type:       models.KindSchemaError,
				Msg:        err.Error(),
				Suggestion: "Fix the schema description before validating data",
			}},
		},
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
