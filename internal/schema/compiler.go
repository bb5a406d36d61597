package schema

import (
	"fmt"
	"math"
	"strings"
)

// CompilationError is fatal for the request that carried the schema. Field
// names the offending spec entry when known.
type CompilationError struct {
	Field  string
	Reason string
}

func (e *CompilationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema compilation failed: %s", e.Reason)
	}
	return fmt.Sprintf("schema compilation failed at %q: %s", e.Field, e.Reason)
}

// CompiledField is one field validator: the type gate, the ordered scalar
// checks, and the nested validators for containers.
type CompiledField struct {
	Name     string
	Required bool
	Type     FieldType
	Checks   []Check
	Object   []CompiledField
	Items    *CompiledField
}

// CompiledSchema holds field validators in schema declaration order.
type CompiledSchema struct {
	Fields []CompiledField
}

// Compiler turns schema descriptions into compiled validators. Constraint
// sets that make no sense for the declared type (a numeric bound on a string,
// a pattern on a number) fail here, not during validation.
type Compiler struct {
	names *NameChecker
}

func NewCompiler(names *NameChecker) *Compiler {
	if names == nil {
		names = NewNameChecker(DefaultHeuristicConfig())
	}
	return &Compiler{names: names}
}

// Compile parses a raw schema description and builds the validator list.
func (c *Compiler) Compile(description []byte) (*CompiledSchema, error) {
	fields, err := ParseDescription(description)
	if err != nil {
		return nil, &CompilationError{Reason: err.Error()}
	}

	compiled, err := c.compileFields("", fields)
	if err != nil {
		return nil, err
	}

	return &CompiledSchema{Fields: compiled}, nil
}

func (c *Compiler) compileFields(prefix string, fields FieldList) ([]CompiledField, error) {
	compiled := make([]CompiledField, 0, len(fields))

	for _, field := range fields {
		cf, err := c.compileField(prefix, field.Name, field.Spec)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cf)
	}

	return compiled, nil
}

func (c *Compiler) compileField(prefix, name string, spec FieldSpec) (CompiledField, error) {
	if strings.TrimSpace(name) == "" {
		return CompiledField{}, &CompilationError{Field: prefix, Reason: "empty field name"}
	}

	path := joinPath(prefix, name)

	cf, err := c.compileSpec(path, spec)
	if err != nil {
		return CompiledField{}, err
	}

	cf.Name = name
	cf.Required = spec.Required

	// Name-like string fields get the plausibility heuristic on top of the
	// regular checks.
	if spec.Type == TypeString && c.names.IsNameField(name) {
		cf.Checks = append(cf.Checks, c.names.Check)
	}

	return cf, nil
}

func (c *Compiler) compileSpec(path string, spec FieldSpec) (CompiledField, error) {
	cf := CompiledField{Type: spec.Type}

	switch spec.Type {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeArray:
	case "":
		return cf, &CompilationError{Field: path, Reason: "missing type"}
	default:
		return cf, &CompilationError{Field: path, Reason: fmt.Sprintf("unknown type %q", spec.Type)}
	}

	if err := checkConstraintConsistency(path, spec); err != nil {
		return cf, err
	}

	if spec.MinLength != nil || spec.MaxLength != nil {
		cf.Checks = append(cf.Checks, newLengthCheck(spec.MinLength, spec.MaxLength))
	}

	switch spec.Format {
	case FormatEmail:
		cf.Checks = append(cf.Checks, checkEmail)
	case FormatDate:
		cf.Checks = append(cf.Checks, checkDate)
	}

	if spec.Pattern != "" {
		check, err := newPatternCheck(spec.Pattern)
		if err != nil {
			return cf, &CompilationError{Field: path, Reason: err.Error()}
		}
		cf.Checks = append(cf.Checks, check)
	}

	if spec.Gt != nil || spec.Lt != nil {
		cf.Checks = append(cf.Checks, newBoundsCheck(spec.Gt, spec.Lt))
	}

	if len(spec.Enum) > 0 {
		cf.Checks = append(cf.Checks, newEnumCheck(spec.Enum))
	}

	if spec.Items != nil {
		items, err := c.compileSpec(joinPath(path, "items"), *spec.Items)
		if err != nil {
			return cf, err
		}
		cf.Items = &items
	}

	if len(spec.Fields) > 0 {
		nested, err := c.compileFields(path, spec.Fields)
		if err != nil {
			return cf, err
		}
		cf.Object = nested
	}

	return cf, nil
}

func checkConstraintConsistency(path string, spec FieldSpec) error {
	isString := spec.Type == TypeString
	isNumeric := spec.Type == TypeNumber || spec.Type == TypeInteger
	isScalar := isString || isNumeric || spec.Type == TypeBoolean

	if spec.Format != "" {
		if !isString {
			return &CompilationError{Field: path, Reason: fmt.Sprintf("format on %s type", spec.Type)}
		}
		if spec.Format != FormatEmail && spec.Format != FormatDate {
			return &CompilationError{Field: path, Reason: fmt.Sprintf("unknown format %q", spec.Format)}
		}
	}

	if spec.MinLength != nil || spec.MaxLength != nil {
		if !isString {
			return &CompilationError{Field: path, Reason: fmt.Sprintf("length constraint on %s type", spec.Type)}
		}
		if spec.MinLength != nil && *spec.MinLength < 0 {
			return &CompilationError{Field: path, Reason: "negative min_length"}
		}
		if spec.MaxLength != nil && *spec.MaxLength < 0 {
			return &CompilationError{Field: path, Reason: "negative max_length"}
		}
		if spec.MinLength != nil && spec.MaxLength != nil && *spec.MinLength > *spec.MaxLength {
			return &CompilationError{Field: path, Reason: "min_length greater than max_length"}
		}
	}

	if spec.Pattern != "" && !isString {
		return &CompilationError{Field: path, Reason: fmt.Sprintf("pattern on %s type", spec.Type)}
	}

	if spec.Gt != nil || spec.Lt != nil {
		if !isNumeric {
			return &CompilationError{Field: path, Reason: fmt.Sprintf("numeric bound on %s type", spec.Type)}
		}
		if spec.Gt != nil && spec.Lt != nil && *spec.Gt >= *spec.Lt {
			return &CompilationError{Field: path, Reason: "empty range, gt must be below lt"}
		}
	}

	if len(spec.Enum) > 0 {
		if !isScalar {
			return &CompilationError{Field: path, Reason: fmt.Sprintf("enum on %s type", spec.Type)}
		}
		for _, v := range spec.Enum {
			if !enumValueMatchesType(spec.Type, v) {
				return &CompilationError{Field: path, Reason: fmt.Sprintf("enum value %v does not match type %s", v, spec.Type)}
			}
		}
	}

	if spec.Items != nil && spec.Type != TypeArray {
		return &CompilationError{Field: path, Reason: fmt.Sprintf("items on %s type", spec.Type)}
	}

	if len(spec.Fields) > 0 && spec.Type != TypeObject {
		return &CompilationError{Field: path, Reason: fmt.Sprintf("nested fields on %s type", spec.Type)}
	}

	return nil
}

func enumValueMatchesType(t FieldType, v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNumber:
		_, ok := v.(float64)
		return ok
	case TypeInteger:
		f, ok := v.(float64)
		return ok && f == math.Trunc(f)
	default:
		return false
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
