package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/ai-output-validator/internal/models"
	"github.com/povarna/ai-output-validator/internal/pipeline"
	"github.com/povarna/ai-output-validator/internal/repository"
)

// ValidateInput is the MCP tool input schema (matches HTTP API field names).
type ValidateInput struct {
	Content         map[string]any  `json:"content" jsonschema:"AI output payload to validate"`
	Schema          json.RawMessage `json:"schema,omitempty" jsonschema:"inline schema description; takes precedence over schema_name"`
	SchemaName      string          `json:"schema_name,omitempty" jsonschema:"name of a stored schema to validate against"`
	ValidationType  string          `json:"validation_type,omitempty" jsonschema:"content kind: generic, recommendation, summary, or classification"`
	ValidationLevel string          `json:"validation_level,omitempty" jsonschema:"strictness: structure_only, basic, standard, or strict"`
}

// NewValidateHandler returns a tool handler bound to the given pipeline and
// schema store. Pass the returned function to mcp.AddTool.
func NewValidateHandler(pipe *pipeline.Pipeline, store repository.Store) func(context.Context, *mcp.CallToolRequest, ValidateInput) (*mcp.CallToolResult, *models.ValidationReport, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, *models.ValidationReport, error) {
		return ValidateContent(ctx, pipe, store, input)
	}
}

// ValidateContent resolves the schema and runs the validation pipeline.
// An inline schema wins over schema_name.
func ValidateContent(
	ctx context.Context,
	pipe *pipeline.Pipeline,
	store repository.Store,
	input ValidateInput,
) (*mcp.CallToolResult, *models.ValidationReport, error) {
	if input.Content == nil {
		return nil, nil, errors.New("content is required")
	}

	schemaSource := input.Schema
	level := input.ValidationLevel

	if len(schemaSource) == 0 {
		if input.SchemaName == "" {
			return nil, nil, errors.New("either schema or schema_name is required")
		}

		def, err := store.Get(ctx, input.SchemaName, "")
		if err != nil {
			return nil, nil, err
		}

		schemaSource = def.Schema
		if level == "" {
			level = string(def.ValidationLevel)
		}
	}

	valCtx := models.ValidationContext{
		RequestID: uuid.NewString(),
		Content:   input.Content,
		Schema:    schemaSource,
		Type:      models.ParseType(input.ValidationType),
		Level:     models.ParseLevel(level),
		CreatedAt: time.Now(),
	}

	report := pipe.Run(ctx, valCtx)
	return nil, report, nil
}
