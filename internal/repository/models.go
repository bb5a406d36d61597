package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/ai-output-validator/internal/models"
)

// SchemaCreate is the input for storing a new schema. The description field
// is kept as raw JSON so the declared field order survives storage.
type SchemaCreate struct {
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Schema          json.RawMessage        `json:"schema"`
	ValidationLevel models.ValidationLevel `json:"validation_level,omitempty"`
	Example         map[string]any         `json:"example,omitempty"`
}

// SchemaUpdate carries the fields of an existing schema to change; nil
// fields keep their current value.
type SchemaUpdate struct {
	Description     *string                 `json:"description,omitempty"`
	Schema          json.RawMessage         `json:"schema,omitempty"`
	ValidationLevel *models.ValidationLevel `json:"validation_level,omitempty"`
	Example         map[string]any          `json:"example,omitempty"`
	VersionNotes    string                  `json:"version_notes,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u SchemaUpdate) Empty() bool {
	return u.Description == nil && u.Schema == nil && u.ValidationLevel == nil && u.Example == nil
}

// SchemaDefinition is one stored version of a schema.
type SchemaDefinition struct {
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Version         string                 `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Schema          json.RawMessage        `json:"schema"`
	ValidationLevel models.ValidationLevel `json:"validation_level"`
	Example         map[string]any         `json:"example,omitempty"`
	VersionNotes    string                 `json:"version_notes,omitempty"`
}

// SchemaMetadata tracks a schema across versions.
type SchemaMetadata struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CurrentVersion string    `json:"current_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Versions       []string  `json:"versions"`
}

const initialVersion = "1.0"

// bumpMinor turns "1.3" into "1.4". Versions are always written by this
// package, so a malformed one means corrupted storage.
func bumpMinor(version string) (string, error) {
	major, minor, found := strings.Cut(version, ".")
	if !found {
		return "", fmt.Errorf("malformed schema version %q", version)
	}

	minorNum, err := strconv.Atoi(minor)
	if err != nil {
		return "", fmt.Errorf("malformed schema version %q: %w", version, err)
	}

	return fmt.Sprintf("%s.%d", major, minorNum+1), nil
}
