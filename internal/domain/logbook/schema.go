package logbook

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kitchenops/backend/internal/domain/shared"
)

// FieldType classifies a form schema property
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
)

// Field is one declared property of a form schema. The schema is parsed
// into these typed fields once at template creation so submissions never
// re-interpret raw JSON trees.
type Field interface {
	Name() string
	Type() FieldType
}

// TextField is a string property with optional length and format constraints
type TextField struct {
	FieldName string
	MinLength *int
	MaxLength *int
	Format    string // "email" is the only recognized format
}

// Name returns the property name
func (f TextField) Name() string { return f.FieldName }

// Type returns FieldTypeString
func (f TextField) Type() FieldType { return FieldTypeString }

// NumberField is a numeric property with optional bounds
type NumberField struct {
	FieldName string
	Minimum   *float64
	Maximum   *float64
}

// Name returns the property name
func (f NumberField) Name() string { return f.FieldName }

// Type returns FieldTypeNumber
func (f NumberField) Type() FieldType { return FieldTypeNumber }

// BooleanField is a true/false property. Absent non-required booleans
// default to false during validation.
type BooleanField struct {
	FieldName string
}

// Name returns the property name
func (f BooleanField) Name() string { return f.FieldName }

// Type returns FieldTypeBoolean
func (f BooleanField) Type() FieldType { return FieldTypeBoolean }

// ArrayField is a list-valued property
type ArrayField struct {
	FieldName string
}

// Name returns the property name
func (f ArrayField) Name() string { return f.FieldName }

// Type returns FieldTypeArray
func (f ArrayField) Type() FieldType { return FieldTypeArray }

// EnumField is a string property restricted to a declared option set
type EnumField struct {
	FieldName string
	Options   []string
}

// Name returns the property name
func (f EnumField) Name() string { return f.FieldName }

// Type returns FieldTypeString
func (f EnumField) Type() FieldType { return FieldTypeString }

// FormSchema is the validated, in-memory form of a template's form_schema
type FormSchema struct {
	fields   map[string]Field
	required map[string]bool
}

// rawSchema mirrors the JSON Schema subset templates may declare
type rawSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]rawProperty `json:"properties"`
	Required   []string               `json:"required"`
}

type rawProperty struct {
	Type      string   `json:"type"`
	Minimum   *float64 `json:"minimum"`
	Maximum   *float64 `json:"maximum"`
	MinLength *int     `json:"minLength"`
	MaxLength *int     `json:"maxLength"`
	Format    string   `json:"format"`
	Enum      []string `json:"enum"`
}

// ParseFormSchema parses and structurally validates a form_schema document.
// Malformed schemas are rejected with INVALID_SCHEMA before storage.
func ParseFormSchema(raw []byte) (*FormSchema, error) {
	if len(raw) == 0 {
		return nil, shared.NewDomainError("INVALID_SCHEMA", "form_schema is required")
	}

	var doc rawSchema
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, shared.NewDomainError("INVALID_SCHEMA", fmt.Sprintf("form_schema is not valid JSON: %v", err))
	}

	if doc.Type != "object" {
		return nil, shared.NewDomainError("INVALID_SCHEMA", "form_schema root type must be \"object\"")
	}
	if doc.Properties == nil {
		return nil, shared.NewDomainError("INVALID_SCHEMA", "form_schema must declare a properties map")
	}

	fields := make(map[string]Field, len(doc.Properties))
	for name, prop := range doc.Properties {
		field, err := parseField(name, prop)
		if err != nil {
			return nil, err
		}
		fields[name] = field
	}

	required := make(map[string]bool, len(doc.Required))
	for _, name := range doc.Required {
		if _, ok := fields[name]; !ok {
			return nil, shared.NewDomainError("INVALID_SCHEMA",
				fmt.Sprintf("required field %q is not declared in properties", name))
		}
		required[name] = true
	}

	return &FormSchema{fields: fields, required: required}, nil
}

func parseField(name string, prop rawProperty) (Field, error) {
	if len(prop.Enum) > 0 {
		options := make([]string, len(prop.Enum))
		copy(options, prop.Enum)
		return EnumField{FieldName: name, Options: options}, nil
	}

	switch prop.Type {
	case "string":
		if prop.Format != "" && prop.Format != "email" {
			return nil, shared.NewDomainError("INVALID_SCHEMA",
				fmt.Sprintf("field %q has unsupported format %q", name, prop.Format))
		}
		if prop.MinLength != nil && *prop.MinLength < 0 {
			return nil, shared.NewDomainError("INVALID_SCHEMA",
				fmt.Sprintf("field %q has negative minLength", name))
		}
		if prop.MinLength != nil && prop.MaxLength != nil && *prop.MinLength > *prop.MaxLength {
			return nil, shared.NewDomainError("INVALID_SCHEMA",
				fmt.Sprintf("field %q has minLength greater than maxLength", name))
		}
		return TextField{
			FieldName: name,
			MinLength: prop.MinLength,
			MaxLength: prop.MaxLength,
			Format:    prop.Format,
		}, nil
	case "number", "integer":
		if prop.Minimum != nil && prop.Maximum != nil && *prop.Minimum > *prop.Maximum {
			return nil, shared.NewDomainError("INVALID_SCHEMA",
				fmt.Sprintf("field %q has minimum greater than maximum", name))
		}
		return NumberField{FieldName: name, Minimum: prop.Minimum, Maximum: prop.Maximum}, nil
	case "boolean":
		return BooleanField{FieldName: name}, nil
	case "array":
		return ArrayField{FieldName: name}, nil
	default:
		return nil, shared.NewDomainError("INVALID_SCHEMA",
			fmt.Sprintf("field %q has unsupported type %q", name, prop.Type))
	}
}

// Field returns the declared field for a property name
func (s *FormSchema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// FieldNames returns all declared property names in sorted order
func (s *FormSchema) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether the property must be present and non-empty
func (s *FormSchema) IsRequired(name string) bool {
	return s.required[name]
}

// RequiredFields returns the required property names in sorted order
func (s *FormSchema) RequiredFields() []string {
	names := make([]string, 0, len(s.required))
	for name := range s.required {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
