package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
)

// Format is an optional refinement of a string field.
const (
	FormatEmail = "email"
	FormatDate  = "date"
)

// FieldSpec describes the constraints on a single field.
type FieldSpec struct {
	Type        FieldType  `json:"type"`
	Required    bool       `json:"required,omitempty"`
	Description string     `json:"description,omitempty"`
	Format      string     `json:"format,omitempty"`
	MinLength   *int       `json:"min_length,omitempty"`
	MaxLength   *int       `json:"max_length,omitempty"`
	Pattern     string     `json:"pattern,omitempty"`
	Enum        []any      `json:"enum,omitempty"`
	Gt          *float64   `json:"gt,omitempty"`
	Lt          *float64   `json:"lt,omitempty"`
	Items       *FieldSpec `json:"items,omitempty"`
	Fields      FieldList  `json:"fields,omitempty"`
}

// NamedSpec pairs a field name with its spec.
type NamedSpec struct {
	Name string
	Spec FieldSpec
}

// FieldList is an ordered set of named field specs. JSON objects carry no
// order in Go maps, but validation errors must follow schema declaration
// order, so the list is decoded with a token walk that keeps the order the
// keys appear in the document.
type FieldList []NamedSpec

func (fl *FieldList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema description must be a JSON object")
	}

	var fields []NamedSpec
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in schema description", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}

		specDec := json.NewDecoder(bytes.NewReader(raw))
		specDec.DisallowUnknownFields()

		var spec FieldSpec
		if err := specDec.Decode(&spec); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}

		fields = append(fields, NamedSpec{Name: name, Spec: spec})
	}

	*fl = fields
	return nil
}

func (fl FieldList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fl {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Spec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseDescription decodes a raw schema description into an ordered field list.
func ParseDescription(data []byte) (FieldList, error) {
	var fl FieldList
	if err := json.Unmarshal(data, &fl); err != nil {
		return nil, err
	}
	return fl, nil
}
