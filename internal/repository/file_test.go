package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var productSchema = json.RawMessage(`{
	"product_name": {"type": "string", "required": true},
	"price": {"type": "number", "required": true}
}`)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	return store
}

func TestFileStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, SchemaCreate{
		Name:        "product_review",
		Description: "Product review output",
		Schema:      productSchema,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if created.Version != "1.0" {
		t.Errorf("Expected initial version 1.0, got %s", created.Version)
	}
	if created.ValidationLevel != "standard" {
		t.Errorf("Expected default validation level 'standard', got %s", created.ValidationLevel)
	}

	got, err := store.Get(ctx, "product_review", "")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if got.Name != "product_review" {
		t.Errorf("Expected name 'product_review', got %s", got.Name)
	}
	if got.Version != "1.0" {
		t.Errorf("Expected current version 1.0, got %s", got.Version)
	}
	if string(got.Schema) == "" {
		t.Error("Expected schema body to round-trip")
	}
}

func TestFileStore_CreateDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, SchemaCreate{Name: "product_review", Schema: productSchema}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	_, err := store.Create(ctx, SchemaCreate{Name: "product_review", Schema: productSchema})
	if !errors.Is(err, ErrSchemaExists) {
		t.Errorf("Expected ErrSchemaExists, got %v", err)
	}
}

func TestFileStore_CreateRejectsBadNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"ab", "Product", "my-schema", "my schema", ""} {
		if _, err := store.Create(ctx, SchemaCreate{Name: name, Schema: productSchema}); err == nil {
			t.Errorf("Expected name %q to be rejected", name)
		}
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope", "")
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound, got %v", err)
	}
}

func TestFileStore_GetMissingVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, SchemaCreate{Name: "product_review", Schema: productSchema}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	_, err := store.Get(ctx, "product_review", "9.9")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("Expected ErrVersionNotFound, got %v", err)
	}
}

func TestFileStore_UpdateBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, SchemaCreate{Name: "product_review", Schema: productSchema}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	desc := "Now with ratings"
	updated, err := store.Update(ctx, "product_review", SchemaUpdate{
		Description:  &desc,
		VersionNotes: "add rating field",
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if updated.Version != "1.1" {
		t.Errorf("Expected version 1.1 after update, got %s", updated.Version)
	}
	if updated.Description != desc {
		t.Errorf("Expected updated description, got %s", updated.Description)
	}
	if updated.VersionNotes != "add rating field" {
		t.Errorf("Expected version notes to be recorded, got %q", updated.VersionNotes)
	}

	// The original version must still be readable, unchanged.
	original, err := store.Get(ctx, "product_review", "1.0")
	if err != nil {
		t.Fatalf("Get(1.0) failed: %v", err)
	}
	if original.Description != "" {
		t.Errorf("Expected version 1.0 to keep its original description, got %q", original.Description)
	}

	// An empty Get must now resolve to the new current version.
	current, err := store.Get(ctx, "product_review", "")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if current.Version != "1.1" {
		t.Errorf("Expected current version 1.1, got %s", current.Version)
	}
}

func TestFileStore_UpdateWithNoChanges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, SchemaCreate{Name: "product_review", Schema: productSchema}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	def, err := store.Update(ctx, "product_review", SchemaUpdate{})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if def.Version != "1.0" {
		t.Errorf("Expected no-op update to keep version 1.0, got %s", def.Version)
	}

	versions, err := store.Versions(ctx, "product_review")
	if err != nil {
		t.Fatalf("Versions() failed: %v", err)
	}
	if len(versions) != 1 {
		t.Errorf("Expected a single version after no-op update, got %v", versions)
	}
}

func TestFileStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(context.Background(), "nope", SchemaUpdate{VersionNotes: "x"})
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound, got %v", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, SchemaCreate{Name: "product_review", Schema: productSchema}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := store.Delete(ctx, "product_review"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := store.Get(ctx, "product_review", ""); !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound after delete, got %v", err)
	}

	if err := store.Delete(ctx, "product_review"); !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound on second delete, got %v", err)
	}
}

func TestFileStore_ListAndVersions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"product_review", "support_ticket"} {
		if _, err := store.Create(ctx, SchemaCreate{Name: name, Schema: productSchema}); err != nil {
			t.Fatalf("Create(%s) failed: %v", name, err)
		}
	}

	if _, err := store.Update(ctx, "product_review", SchemaUpdate{VersionNotes: "tweak"}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	schemas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("Expected 2 schemas, got %d", len(schemas))
	}

	byName := make(map[string]SchemaMetadata)
	for _, meta := range schemas {
		byName[meta.Name] = meta
	}

	review, ok := byName["product_review"]
	if !ok {
		t.Fatal("Expected product_review in listing")
	}
	if review.CurrentVersion != "1.1" {
		t.Errorf("Expected current version 1.1, got %s", review.CurrentVersion)
	}
	if len(review.Versions) != 2 {
		t.Errorf("Expected 2 versions, got %v", review.Versions)
	}

	versions, err := store.Versions(ctx, "product_review")
	if err != nil {
		t.Fatalf("Versions() failed: %v", err)
	}
	if len(versions) != 2 || versions[0] != "1.0" || versions[1] != "1.1" {
		t.Errorf("Expected versions [1.0 1.1], got %v", versions)
	}
}

func TestFileStore_ListSkipsStrayFiles(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	ctx := context.Background()
	if _, err := store.Create(ctx, SchemaCreate{Name: "product_review", Schema: productSchema}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// A loose file and an empty directory must not break listing.
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatalf("Failed to write stray file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "empty"), 0o755); err != nil {
		t.Fatalf("Failed to create stray directory: %v", err)
	}

	schemas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(schemas) != 1 {
		t.Errorf("Expected 1 schema, got %d", len(schemas))
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "product_review", false},
		{"digits", "schema_v2", false},
		{"minimum length", "abc", false},
		{"too short", "ab", true},
		{"uppercase", "ProductReview", true},
		{"hyphen", "product-review", true},
		{"space", "product review", true},
		{"empty", "", true},
		{"dot", "product.review", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("Expected %q to be rejected", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected %q to be accepted, got %v", tt.input, err)
			}
		})
	}
}

func TestBumpMinor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.0", "1.1", false},
		{"1.9", "1.10", false},
		{"2.3", "2.4", false},
		{"garbage", "", true},
		{"1.x", "", true},
	}

	for _, tt := range tests {
		got, err := bumpMinor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("bumpMinor(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("bumpMinor(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("bumpMinor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
