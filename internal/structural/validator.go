package structural

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/povarna/ai-output-validator/internal/models"
	"github.com/povarna/ai-output-validator/internal/schema"
)

// Validator walks a payload against a compiled schema. It never panics on
// malformed shapes; every problem becomes a ValidationError. With
// strictFields set, payload fields the schema does not declare are reported
// instead of ignored.
type Validator struct {
	strictFields bool
}

func NewValidator(strictFields bool) *Validator {
	return &Validator{strictFields: strictFields}
}

// Validate reports every structural finding, ordered by schema declaration
// order. Two runs over the same inputs produce identical results.
func (v *Validator) Validate(compiled *schema.CompiledSchema, payload map[string]any) models.StructuralResult {
	errs := []models.ValidationError{}

	if compiled != nil {
		v.walkObject("", compiled.Fields, payload, &errs)
	}

	result := models.StructuralResult{
		IsStructurallyValid: len(errs) == 0,
		Errors:              errs,
	}

	if result.IsStructurallyValid && compiled != nil {
		result.ValidatedData = filterDeclared(compiled.Fields, payload)
	}

	return result
}

func (v *Validator) walkObject(prefix string, fields []schema.CompiledField, obj map[string]any, errs *[]models.ValidationError) {
	for _, field := range fields {
		path := joinPath(prefix, field.Name)

		value, present := obj[field.Name]
		if !present {
			if field.Required {
				*errs = append(*errs, models.ValidationError{
					Loc:        path,
					Type:       models.KindMissingField,
					Msg:        "field required",
					Suggestion: fmt.Sprintf("Add the required field %q", field.Name),
				})
			}
			continue
		}

		v.checkValue(path, field, value, errs)
	}

	if v.strictFields {
		declared := make(map[string]struct{}, len(fields))
		for _, field := range fields {
			declared[field.Name] = struct{}{}
		}

		var unknown []string
		for key := range obj {
			if _, ok := declared[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)

		for _, key := range unknown {
			*errs = append(*errs, models.ValidationError{
				Loc:        joinPath(prefix, key),
				Type:       models.KindUnexpectedField,
				Msg:        "field is not declared in the schema",
				Suggestion: fmt.Sprintf("Remove %q or declare it in the schema", key),
			})
		}
	}
}

// checkValue gates on the declared type first; a mismatch short-circuits the
// remaining checks for the field.
func (v *Validator) checkValue(path string, field schema.CompiledField, value any, errs *[]models.ValidationError) {
	if !matchesType(field.Type, value) {
		*errs = append(*errs, models.ValidationError{
			Loc:        path,
			Type:       models.KindTypeMismatch,
			Msg:        fmt.Sprintf("expected %s, got %s", field.Type, valueTypeName(value)),
			Suggestion: fmt.Sprintf("Provide a %s value", field.Type),
		})
		return
	}

	for _, check := range field.Checks {
		if err := check(value); err != nil {
			e := *err
			e.Loc = path
			*errs = append(*errs, e)
		}
	}

	switch field.Type {
	case schema.TypeObject:
		if len(field.Object) > 0 {
			nested, _ := value.(map[string]any)
			v.walkObject(path, field.Object, nested, errs)
		}
	case schema.TypeArray:
		if field.Items != nil {
			elements, _ := value.([]any)
			for i, element := range elements {
				v.checkValue(path+"."+strconv.Itoa(i), *field.Items, element, errs)
			}
		}
	}
}

func matchesType(t schema.FieldType, value any) bool {
	switch t {
	case schema.TypeString:
		_, ok := value.(string)
		return ok
	case schema.TypeNumber:
		_, ok := value.(float64)
		return ok
	case schema.TypeInteger:
		f, ok := value.(float64)
		return ok && f == math.Trunc(f)
	case schema.TypeBoolean:
		_, ok := value.(bool)
		return ok
	case schema.TypeObject:
		_, ok := value.(map[string]any)
		return ok
	case schema.TypeArray:
		_, ok := value.([]any)
		return ok
	default:
		return false
	}
}

func valueTypeName(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if v == math.Trunc(v) {
			return "integer"
		}
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// filterDeclared copies the payload keeping only schema-declared fields, so
// the validated data never leaks undeclared input back to the caller.
func filterDeclared(fields []schema.CompiledField, obj map[string]any) map[string]any {
	out := make(map[string]any, len(fields))

	for _, field := range fields {
		value, present := obj[field.Name]
		if !present {
			continue
		}
		out[field.Name] = filterValue(field, value)
	}

	return out
}

func filterValue(field schema.CompiledField, value any) any {
	switch field.Type {
	case schema.TypeObject:
		if nested, ok := value.(map[string]any); ok && len(field.Object) > 0 {
			return filterDeclared(field.Object, nested)
		}
	case schema.TypeArray:
		if elements, ok := value.([]any); ok && field.Items != nil {
			filtered := make([]any, len(elements))
			for i, element := range elements {
				filtered[i] = filterValue(*field.Items, element)
			}
			return filtered
		}
	}

	return value
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
