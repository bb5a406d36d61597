package models

import (
	"encoding/json"
	"time"
)

type ValidationLevel string

const (
	LevelStructureOnly ValidationLevel = "structure_only"
	LevelBasic         ValidationLevel = "basic"
	LevelStandard      ValidationLevel = "standard"
	LevelStrict        ValidationLevel = "strict"
)

type ValidationType string

const (
	TypeGeneric        ValidationType = "generic"
	TypeRecommendation ValidationType = "recommendation"
	TypeSummary        ValidationType = "summary"
	TypeClassification ValidationType = "classification"
)

// ErrorKind identifies the category of a structural validation error.
type ErrorKind string

const (
	KindMissingField    ErrorKind = "missing_field"
	KindTypeMismatch    ErrorKind = "type_mismatch"
	KindInvalidEmail    ErrorKind = "invalid_email"
	KindInvalidDate     ErrorKind = "invalid_date"
	KindPatternMismatch ErrorKind = "pattern_mismatch"
	KindOutOfRange      ErrorKind = "out_of_range"
	KindNotInEnum       ErrorKind = "not_in_enum"
	KindLengthViolation ErrorKind = "length_violation"
	KindInvalidName     ErrorKind = "invalid_name"
	KindUnexpectedField ErrorKind = "unexpected_field"
	KindSchemaError     ErrorKind = "schema_error"
)

// ValidationError is a single structural finding. Loc is the dotted path to
// the offending field ("order.customer.name", "items.2.sku").
type ValidationError struct {
	Loc        string    `json:"loc"`
	Type       ErrorKind `json:"type"`
	Msg        string    `json:"msg"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// StructuralResult carries every finding of the structural stage. On success
// ValidatedData holds the payload restricted to schema-declared fields.
type StructuralResult struct {
	IsStructurallyValid bool              `json:"is_structurally_valid"`
	Errors              []ValidationError `json:"errors"`
	ValidatedData       map[string]any    `json:"validated_data,omitempty"`
}

// SemanticResult is the outcome of the content-quality stage. Degraded marks
// a result produced by the local fallback instead of the LLM.
type SemanticResult struct {
	IsSemanticallyValid bool     `json:"is_semantically_valid"`
	SemanticScore       float64  `json:"semantic_score"`
	Issues              []string `json:"issues"`
	Suggestions         []string `json:"suggestions"`
	Degraded            bool     `json:"degraded,omitempty"`
}

// Input message
type ValidationRequest struct {
	Content         map[string]any  `json:"content"`
	Schema          json.RawMessage `json:"schema,omitempty"`
	ValidationType  ValidationType  `json:"validation_type,omitempty"`
	ValidationLevel ValidationLevel `json:"validation_level,omitempty"`
}

// Normalized internal object
type ValidationContext struct {
	RequestID string          `json:"request_id" jsonschema:"required,description=Unique request identifier"`
	Content   map[string]any  `json:"content" jsonschema:"required,description=AI output payload to validate"`
	Schema    json.RawMessage `json:"schema" jsonschema:"required,description=Schema description the payload is validated against"`
	Type      ValidationType  `json:"validation_type" jsonschema:"description=Kind of content being validated"`
	Level     ValidationLevel `json:"validation_level" jsonschema:"description=Validation strictness level"`
	CreatedAt time.Time       `json:"created_at" jsonschema:"description=Time when the validation context was created"`
}

// Final report returned to the caller. Semantic is null when the semantic
// stage did not run.
type ValidationReport struct {
	IsValid          bool             `json:"is_valid"`
	Structural       StructuralResult `json:"structural_validation"`
	Semantic         *SemanticResult  `json:"semantic_validation"`
	ProcessingTimeMs float64          `json:"processing_time_ms"`
}

// ParseLevel maps the wire value to a ValidationLevel, defaulting to standard.
func ParseLevel(s string) ValidationLevel {
	switch ValidationLevel(s) {
	case LevelStructureOnly, LevelBasic, LevelStandard, LevelStrict:
		return ValidationLevel(s)
	default:
		return LevelStandard
	}
}

// ParseType maps the wire value to a ValidationType, defaulting to generic.
func ParseType(s string) ValidationType {
	switch ValidationType(s) {
	case TypeGeneric, TypeRecommendation, TypeSummary, TypeClassification:
		return ValidationType(s)
	default:
		return TypeGeneric
	}
}
