package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// PostgresStore keeps every schema version as its own row; the current one is
// flagged with is_current so reads never have to sort version strings.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, config PostgresConfig) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS schemas (
		name             TEXT NOT NULL,
		version          TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		definition       JSONB NOT NULL,
		validation_level TEXT NOT NULL DEFAULT 'standard',
		example          JSONB,
		version_notes    TEXT NOT NULL DEFAULT '',
		is_current       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (name, version)
	)`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schemas table: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Create(ctx context.Context, in SchemaCreate) (*SchemaDefinition, error) {
	if err := ValidateName(in.Name); err != nil {
		return nil, err
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schemas WHERE name = $1)`, in.Name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check schema %q: %w", in.Name, err)
	}
	if exists {
		return nil, fmt.Errorf("schema %q: %w", in.Name, ErrSchemaExists)
	}

	now := time.Now().UTC()
	level := in.ValidationLevel
	if level == "" {
		level = "standard"
	}

	query := `
	INSERT INTO schemas (name, version, description, definition, validation_level, example, is_current, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)`

	if _, err := s.pool.Exec(ctx, query, in.Name, initialVersion, in.Description, in.Schema, level, in.Example, now); err != nil {
		return nil, fmt.Errorf("failed to insert schema %q: %w", in.Name, err)
	}

	log.Info().Str("schema", in.Name).Str("version", initialVersion).Msg("Schema created")

	return &SchemaDefinition{
		Name:            in.Name,
		Description:     in.Description,
		Version:         initialVersion,
		CreatedAt:       now,
		UpdatedAt:       now,
		Schema:          in.Schema,
		ValidationLevel: level,
		Example:         in.Example,
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, name, version string) (*SchemaDefinition, error) {
	query := `
	SELECT name, version, description, definition, validation_level, example, version_notes, created_at, updated_at
	FROM schemas
	WHERE name = $1 AND is_current = TRUE`

	args := []any{name}
	if version != "" {
		query = `
		SELECT name, version, description, definition, validation_level, example, version_notes, created_at, updated_at
		FROM schemas
		WHERE name = $1 AND version = $2`
		args = append(args, version)
	}

	def, err := scanDefinition(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if version != "" {
				return nil, fmt.Errorf("schema %q version %q: %w", name, version, ErrVersionNotFound)
			}
			return nil, fmt.Errorf("schema %q: %w", name, ErrSchemaNotFound)
		}
		return nil, err
	}

	return def, nil
}

func (s *PostgresStore) Update(ctx context.Context, name string, in SchemaUpdate) (*SchemaDefinition, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
	SELECT name, version, description, definition, validation_level, example, version_notes, created_at, updated_at
	FROM schemas
	WHERE name = $1 AND is_current = TRUE
	FOR UPDATE`

	current, err := scanDefinition(tx.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("schema %q: %w", name, ErrSchemaNotFound)
		}
		return nil, err
	}

	if in.Empty() {
		return current, nil
	}

	newVersion, err := bumpMinor(current.Version)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Version = newVersion
	updated.UpdatedAt = time.Now().UTC()
	updated.VersionNotes = in.VersionNotes
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.Schema != nil {
		updated.Schema = in.Schema
	}
	if in.ValidationLevel != nil {
		updated.ValidationLevel = *in.ValidationLevel
	}
	if in.Example != nil {
		updated.Example = in.Example
	}

	if _, err := tx.Exec(ctx, `UPDATE schemas SET is_current = FALSE WHERE name = $1 AND is_current = TRUE`, name); err != nil {
		return nil, fmt.Errorf("failed to demote current version of %q: %w", name, err)
	}

	insert := `
	INSERT INTO schemas (name, version, description, definition, validation_level, example, version_notes, is_current, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9)`

	if _, err := tx.Exec(ctx, insert,
		updated.Name, updated.Version, updated.Description, updated.Schema,
		updated.ValidationLevel, updated.Example, updated.VersionNotes,
		updated.CreatedAt, updated.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert version %q of %q: %w", newVersion, name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit schema update: %w", err)
	}

	log.Info().Str("schema", name).Str("version", newVersion).Msg("Schema updated")

	return &updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM schemas WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete schema %q: %w", name, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schema %q: %w", name, ErrSchemaNotFound)
	}

	log.Info().Str("schema", name).Msg("Schema deleted")

	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]SchemaMetadata, error) {
	query := `
	SELECT name, version, description, is_current, created_at, updated_at
	FROM schemas
	ORDER BY name, created_at, updated_at`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer rows.Close()

	var schemas []SchemaMetadata
	index := make(map[string]int)

	for rows.Next() {
		var (
			name, version, description string
			isCurrent                  bool
			createdAt, updatedAt       time.Time
		)

		if err := rows.Scan(&name, &version, &description, &isCurrent, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}

		i, ok := index[name]
		if !ok {
			i = len(schemas)
			index[name] = i
			schemas = append(schemas, SchemaMetadata{Name: name, CreatedAt: createdAt})
		}

		schemas[i].Versions = append(schemas[i].Versions, version)
		if isCurrent {
			schemas[i].Description = description
			schemas[i].CurrentVersion = version
			schemas[i].UpdatedAt = updatedAt
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if schemas == nil {
		schemas = []SchemaMetadata{}
	}

	return schemas, nil
}

func (s *PostgresStore) Versions(ctx context.Context, name string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT version FROM schemas WHERE name = $1 ORDER BY created_at, updated_at`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions of %q: %w", name, err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan version row: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if len(versions) == 0 {
		return nil, fmt.Errorf("schema %q: %w", name, ErrSchemaNotFound)
	}

	return versions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (*SchemaDefinition, error) {
	var def SchemaDefinition
	err := row.Scan(&def.Name, &def.Version, &def.Description, &def.Schema,
		&def.ValidationLevel, &def.Example, &def.VersionNotes, &def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan schema definition: %w", err)
	}

	return &def, nil
}
