package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrSchemaNotFound  = errors.New("schema not found")
	ErrSchemaExists    = errors.New("schema already exists")
	ErrVersionNotFound = errors.New("schema version not found")
	ErrInvalidName     = errors.New("invalid schema name")
)

var schemaNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateName enforces the repository naming rules: lowercase letters,
// digits and underscores, at least three characters.
func ValidateName(name string) error {
	if len(name) < 3 {
		return fmt.Errorf("%w: %q is too short, need at least 3 characters", ErrInvalidName, name)
	}
	if !schemaNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must contain only lowercase letters, numbers, and underscores", ErrInvalidName, name)
	}
	return nil
}

// Store is the schema repository contract. Both backends version schemas the
// same way: Create starts at 1.0, Update bumps the minor version, versions
// are immutable once written.
type Store interface {
	// Create stores a new schema at version 1.0.
	Create(ctx context.Context, in SchemaCreate) (*SchemaDefinition, error)
	// Get resolves a schema; an empty version means the current one.
	Get(ctx context.Context, name, version string) (*SchemaDefinition, error)
	// Update writes a new minor version with the changed fields.
	Update(ctx context.Context, name string, in SchemaUpdate) (*SchemaDefinition, error)
	// Delete removes a schema and all its versions.
	Delete(ctx context.Context, name string) error
	// List returns metadata for every stored schema.
	List(ctx context.Context) ([]SchemaMetadata, error)
	// Versions returns the version history for a schema, oldest first.
	Versions(ctx context.Context, name string) ([]string, error)
}
