package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// FileStore keeps schemas on disk: <dir>/<name>/metadata.json plus one
// <version>.json file per version. Version files are written once and never
// touched again; only metadata.json changes on update.
type FileStore struct {
	baseDir string
	mu      sync.Mutex
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create schema directory %s: %w", baseDir, err)
	}

	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) schemaDir(name string) string {
	return filepath.Join(s.baseDir, name)
}

func (s *FileStore) metadataPath(name string) string {
	return filepath.Join(s.schemaDir(name), "metadata.json")
}

func (s *FileStore) versionPath(name, version string) string {
	return filepath.Join(s.schemaDir(name), version+".json")
}

func (s *FileStore) exists(name string) bool {
	_, err := os.Stat(s.metadataPath(name))
	return err == nil
}

func (s *FileStore) Create(ctx context.Context, in SchemaCreate) (*SchemaDefinition, error) {
	if err := ValidateName(in.Name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(in.Name) {
		return nil, fmt.Errorf("schema %q: %w", in.Name, ErrSchemaExists)
	}

	if err := os.MkdirAll(s.schemaDir(in.Name), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for schema %q: %w", in.Name, err)
	}

	now := time.Now().UTC()
	level := in.ValidationLevel
	if level == "" {
		level = "standard"
	}

	def := &SchemaDefinition{
		Name:            in.Name,
		Description:     in.Description,
		Version:         initialVersion,
		CreatedAt:       now,
		UpdatedAt:       now,
		Schema:          in.Schema,
		ValidationLevel: level,
		Example:         in.Example,
	}

	meta := SchemaMetadata{
		Name:           in.Name,
		Description:    in.Description,
		CurrentVersion: initialVersion,
		CreatedAt:      now,
		UpdatedAt:      now,
		Versions:       []string{initialVersion},
	}

	if err := s.writeJSON(s.versionPath(in.Name, initialVersion), def); err != nil {
		return nil, err
	}
	if err := s.writeJSON(s.metadataPath(in.Name), meta); err != nil {
		return nil, err
	}

	log.Info().Str("schema", in.Name).Str("version", initialVersion).Msg("Schema created")

	return def, nil
}

func (s *FileStore) Get(ctx context.Context, name, version string) (*SchemaDefinition, error) {
	meta, err := s.readMetadata(name)
	if err != nil {
		return nil, err
	}

	if version == "" {
		version = meta.CurrentVersion
	}

	if !slices.Contains(meta.Versions, version) {
		return nil, fmt.Errorf("schema %q version %q: %w", name, version, ErrVersionNotFound)
	}

	var def SchemaDefinition
	if err := s.readJSON(s.versionPath(name, version), &def); err != nil {
		return nil, err
	}

	return &def, nil
}

func (s *FileStore) Update(ctx context.Context, name string, in SchemaUpdate) (*SchemaDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.readMetadata(name)
	if err != nil {
		return nil, err
	}

	var current SchemaDefinition
	if err := s.readJSON(s.versionPath(name, meta.CurrentVersion), &current); err != nil {
		return nil, err
	}

	if in.Empty() {
		return &current, nil
	}

	newVersion, err := bumpMinor(meta.CurrentVersion)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := current
	updated.Version = newVersion
	updated.UpdatedAt = now
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

	meta.Description = updated.Description
	meta.CurrentVersion = newVersion
	meta.UpdatedAt = now
	meta.Versions = append(meta.Versions, newVersion)

	if err := s.writeJSON(s.versionPath(name, newVersion), updated); err != nil {
		return nil, err
	}
	if err := s.writeJSON(s.metadataPath(name), meta); err != nil {
		return nil, err
	}

	log.Info().Str("schema", name).Str("version", newVersion).Msg("Schema updated")

	return &updated, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(name) {
		return fmt.Errorf("schema %q: %w", name, ErrSchemaNotFound)
	}

	if err := os.RemoveAll(s.schemaDir(name)); err != nil {
		return fmt.Errorf("failed to delete schema %q: %w", name, err)
	}

	log.Info().Str("schema", name).Msg("Schema deleted")

	return nil
}

func (s *FileStore) List(ctx context.Context) ([]SchemaMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	schemas := make([]SchemaMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			// A directory without readable metadata is skipped, not fatal.
			log.Warn().Err(err).Str("schema", entry.Name()).Msg("Skipping unreadable schema directory")
			continue
		}

		schemas = append(schemas, *meta)
	}

	return schemas, nil
}

func (s *FileStore) Versions(ctx context.Context, name string) ([]string, error) {
	meta, err := s.readMetadata(name)
	if err != nil {
		return nil, err
	}

	return meta.Versions, nil
}

func (s *FileStore) readMetadata(name string) (*SchemaMetadata, error) {
	var meta SchemaMetadata
	if err := s.readJSON(s.metadataPath(name), &meta); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema %q: %w", name, ErrSchemaNotFound)
		}
		return nil, err
	}

	return &meta, nil
}

func (s *FileStore) readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

func (s *FileStore) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
