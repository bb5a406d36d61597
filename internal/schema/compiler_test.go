package schema

import (
	"errors"
	"strings"
	"testing"
)

func compile(t *testing.T, description string) *CompiledSchema {
	t.Helper()
	compiled, err := NewCompiler(nil).Compile([]byte(description))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return compiled
}

func TestCompiler_PreservesDeclarationOrder(t *testing.T) {
	compiled := compile(t, `{
		"zulu": {"type": "string"},
		"alpha": {"type": "number"},
		"mike": {"type": "boolean"}
	}`)

	want := []string{"zulu", "alpha", "mike"}
	if len(compiled.Fields) != len(want) {
		t.Fatalf("Expected %d fields, got %d", len(want), len(compiled.Fields))
	}
	for i, name := range want {
		if compiled.Fields[i].Name != name {
			t.Errorf("Field %d: expected %q, got %q", i, name, compiled.Fields[i].Name)
		}
	}
}

func TestCompiler_BuildsOneCheckPerConstraint(t *testing.T) {
	compiled := compile(t, `{
		"email": {"type": "string", "format": "email", "min_length": 5},
		"price": {"type": "number", "gt": 0, "lt": 10000},
		"status": {"type": "string", "enum": ["active", "inactive"]},
		"note": {"type": "string"}
	}`)

	wantChecks := []int{2, 1, 1, 0}
	for i, want := range wantChecks {
		if got := len(compiled.Fields[i].Checks); got != want {
			t.Errorf("Field %q: expected %d checks, got %d", compiled.Fields[i].Name, want, got)
		}
	}
}

func TestCompiler_RequiredFlagCarriesOver(t *testing.T) {
	compiled := compile(t, `{
		"id": {"type": "string", "required": true},
		"note": {"type": "string"}
	}`)

	if !compiled.Fields[0].Required {
		t.Error("Expected id to be required")
	}
	if compiled.Fields[1].Required {
		t.Error("Expected note to be optional")
	}
}

func TestCompiler_NameFieldsGetTheHeuristic(t *testing.T) {
	compiled := compile(t, `{
		"customer_name": {"type": "string"},
		"customer_id": {"type": "string"}
	}`)

	if got := len(compiled.Fields[0].Checks); got != 1 {
		t.Errorf("Expected the name heuristic on customer_name, got %d checks", got)
	}
	if got := len(compiled.Fields[1].Checks); got != 0 {
		t.Errorf("Expected no checks on customer_id, got %d", got)
	}
}

func TestCompiler_NameHeuristicSkipsNonStrings(t *testing.T) {
	// A numeric field that happens to be called "name" must not get the
	// string heuristic.
	compiled := compile(t, `{"name": {"type": "integer"}}`)

	if got := len(compiled.Fields[0].Checks); got != 0 {
		t.Errorf("Expected no checks on an integer name field, got %d", got)
	}
}

func TestCompiler_NestedContainers(t *testing.T) {
	compiled := compile(t, `{
		"order": {"type": "object", "fields": {
			"customer": {"type": "object", "fields": {
				"email": {"type": "string", "format": "email", "required": true}
			}}
		}},
		"tags": {"type": "array", "items": {"type": "string", "min_length": 1}}
	}`)

	order := compiled.Fields[0]
	if len(order.Object) != 1 || order.Object[0].Name != "customer" {
		t.Fatalf("Expected order.customer to compile, got %+v", order.Object)
	}
	email := order.Object[0].Object[0]
	if email.Name != "email" || !email.Required || len(email.Checks) != 1 {
		t.Errorf("Expected a required email field with one check, got %+v", email)
	}

	tags := compiled.Fields[1]
	if tags.Items == nil {
		t.Fatal("Expected tags.items to compile")
	}
	if tags.Items.Type != TypeString || len(tags.Items.Checks) != 1 {
		t.Errorf("Expected string items with one check, got %+v", tags.Items)
	}
}

func TestCompiler_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantField   string
		wantReason  string
	}{
		{name: "not an object", description: `[]`, wantField: "", wantReason: "JSON object"},
		{name: "malformed json", description: `{"a": {`, wantField: "", wantReason: "unexpected EOF"},
		{name: "missing type", description: `{"a": {"required": true}}`, wantField: "a", wantReason: "missing type"},
		{name: "unknown type", description: `{"a": {"type": "decimal"}}`, wantField: "a", wantReason: `unknown type "decimal"`},
		{name: "unknown constraint key", description: `{"a": {"type": "string", "min": 1}}`, wantField: "", wantReason: "unknown field"},
		{name: "empty field name", description: `{"  ": {"type": "string"}}`, wantField: "", wantReason: "empty field name"},
		{name: "pattern on number", description: `{"a": {"type": "number", "pattern": "x"}}`, wantField: "a", wantReason: "pattern on number type"},
		{name: "format on number", description: `{"a": {"type": "number", "format": "email"}}`, wantField: "a", wantReason: "format on number type"},
		{name: "unknown format", description: `{"a": {"type": "string", "format": "uuid"}}`, wantField: "a", wantReason: `unknown format "uuid"`},
		{name: "length on integer", description: `{"a": {"type": "integer", "min_length": 1}}`, wantField: "a", wantReason: "length constraint on integer type"},
		{name: "negative min_length", description: `{"a": {"type": "string", "min_length": -1}}`, wantField: "a", wantReason: "negative min_length"},
		{name: "inverted length range", description: `{"a": {"type": "string", "min_length": 5, "max_length": 2}}`, wantField: "a", wantReason: "min_length greater than max_length"},
		{name: "bounds on string", description: `{"a": {"type": "string", "gt": 0}}`, wantField: "a", wantReason: "numeric bound on string type"},
		{name: "empty numeric range", description: `{"a": {"type": "number", "gt": 5, "lt": 5}}`, wantField: "a", wantReason: "empty range"},
		{name: "enum on object", description: `{"a": {"type": "object", "enum": ["x"]}}`, wantField: "a", wantReason: "enum on object type"},
		{name: "enum value type mismatch", description: `{"a": {"type": "string", "enum": ["x", 3]}}`, wantField: "a", wantReason: "does not match type"},
		{name: "fractional integer enum", description: `{"a": {"type": "integer", "enum": [1, 2.5]}}`, wantField: "a", wantReason: "does not match type"},
		{name: "items on string", description: `{"a": {"type": "string", "items": {"type": "string"}}}`, wantField: "a", wantReason: "items on string type"},
		{name: "fields on array", description: `{"a": {"type": "array", "fields": {"b": {"type": "string"}}}}`, wantField: "a", wantReason: "nested fields on array type"},
		{name: "invalid pattern", description: `{"a": {"type": "string", "pattern": "("}}`, wantField: "a", wantReason: "invalid pattern"},
		{name: "nested field error", description: `{"user": {"type": "object", "fields": {"age": {"type": "integer", "gt": 10, "lt": 5}}}}`, wantField: "user.age", wantReason: "empty range"},
		{name: "items spec error", description: `{"tags": {"type": "array", "items": {"type": "string", "gt": 1}}}`, wantField: "tags.items", wantReason: "numeric bound on string type"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewCompiler(nil).Compile([]byte(test.description))
			if err == nil {
				t.Fatal("Expected compilation to fail")
			}

			var compErr *CompilationError
			if !errors.As(err, &compErr) {
				t.Fatalf("Expected a CompilationError, got %T: %v", err, err)
			}
			if compErr.Field != test.wantField {
				t.Errorf("Expected field %q, got %q", test.wantField, compErr.Field)
			}
			if !strings.Contains(err.Error(), test.wantReason) {
				t.Errorf("Expected reason %q in error, got: %v", test.wantReason, err)
			}
		})
	}
}

func TestCompiler_IntegerEnumAcceptsWholeFloats(t *testing.T) {
	// JSON decodes 3 as float64(3); the enum check must still treat it as an
	// integer value.
	compiled := compile(t, `{"rating": {"type": "integer", "enum": [1, 2, 3]}}`)

	if got := len(compiled.Fields[0].Checks); got != 1 {
		t.Errorf("Expected one enum check, got %d", got)
	}
}

func TestFieldList_RoundTripsDeclarationOrder(t *testing.T) {
	raw := []byte(`{"b": {"type": "string"}, "a": {"type": "number"}, "c": {"type": "boolean"}}`)

	fields, err := ParseDescription(raw)
	if err != nil {
		t.Fatalf("ParseDescription failed: %v", err)
	}

	encoded, err := fields.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	reparsed, err := ParseDescription(encoded)
	if err != nil {
		t.Fatalf("ParseDescription of re-encoded schema failed: %v", err)
	}

	for i, want := range []string{"b", "a", "c"} {
		if reparsed[i].Name != want {
			t.Errorf("Field %d: expected %q after round trip, got %q", i, want, reparsed[i].Name)
		}
	}
}
