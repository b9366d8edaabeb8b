package logbook

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kitchenops/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks a candidate data mapping against the schema and returns
// a sanitized mapping containing only declared properties with values
// coerced to their declared types. Every violated field is reported, not
// just the first, so a form can highlight all errors at once. Validating
// the sanitized output again always succeeds.
func (s *FormSchema) Validate(data map[string]any) (map[string]any, error) {
	return s.validate(data, true)
}

// ValidateDraft checks a partially filled data mapping. Unknown
// properties are still rejected and present values must satisfy their
// field constraints, but required fields may be absent or empty: a
// draft is allowed to be incomplete.
func (s *FormSchema) ValidateDraft(data map[string]any) (map[string]any, error) {
	return s.validate(data, false)
}

func (s *FormSchema) validate(data map[string]any, enforceRequired bool) (map[string]any, error) {
	violations := make([]shared.FieldViolation, 0)
	sanitized := make(map[string]any, len(s.fields))

	// Unknown properties are rejected so schema drift cannot go undetected
	unknown := make([]string, 0)
	for key := range data {
		if _, ok := s.fields[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		violations = append(violations, shared.FieldViolation{
			Field:   key,
			Message: "property is not declared in the template schema",
		})
	}

	for _, name := range s.FieldNames() {
		field := s.fields[name]
		value, present := data[name]

		if !present || value == nil {
			if enforceRequired && s.required[name] {
				violations = append(violations, shared.FieldViolation{
					Field:   name,
					Message: "required field is missing",
				})
				continue
			}
			// Absent non-required booleans default to false
			if field.Type() == FieldTypeBoolean {
				sanitized[name] = false
			}
			continue
		}

		coerced, violation := coerceValue(field, value)
		if violation != nil {
			violations = append(violations, *violation)
			continue
		}

		if enforceRequired && s.required[name] && isEmpty(coerced) {
			violations = append(violations, shared.FieldViolation{
				Field:   name,
				Message: "required field must not be empty",
			})
			continue
		}

		sanitized[name] = coerced
	}

	if len(violations) > 0 {
		return nil, shared.NewValidationError(violations)
	}

	return sanitized, nil
}

// coerceValue converts a submitted value to the field's declared type,
// applying the field's own constraints.
func coerceValue(field Field, value any) (any, *shared.FieldViolation) {
	switch f := field.(type) {
	case TextField:
		return coerceText(f, value)
	case NumberField:
		return coerceNumber(f, value)
	case BooleanField:
		return coerceBoolean(f, value)
	case ArrayField:
		if arr, ok := value.([]any); ok {
			return arr, nil
		}
		return nil, &shared.FieldViolation{Field: f.FieldName, Message: "expected an array"}
	case EnumField:
		return coerceEnum(f, value)
	default:
		return nil, &shared.FieldViolation{Field: field.Name(), Message: "unknown field kind"}
	}
}

func coerceText(f TextField, value any) (any, *shared.FieldViolation) {
	str, ok := value.(string)
	if !ok {
		return nil, &shared.FieldViolation{Field: f.FieldName, Message: "expected a string"}
	}

	if f.MinLength != nil && len(str) < *f.MinLength {
		return nil, &shared.FieldViolation{
			Field:   f.FieldName,
			Message: fmt.Sprintf("must be at least %d characters", *f.MinLength),
		}
	}
	if f.MaxLength != nil && len(str) > *f.MaxLength {
		return nil, &shared.FieldViolation{
			Field:   f.FieldName,
			Message: fmt.Sprintf("must be at most %d characters", *f.MaxLength),
		}
	}
	if f.Format == "email" && str != "" && !emailRegex.MatchString(str) {
		return nil, &shared.FieldViolation{Field: f.FieldName, Message: "must be a valid email address"}
	}

	return str, nil
}

func coerceNumber(f NumberField, value any) (any, *shared.FieldViolation) {
	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, &shared.FieldViolation{Field: f.FieldName, Message: "expected a number"}
		}
		num = parsed
	default:
		return nil, &shared.FieldViolation{Field: f.FieldName, Message: "expected a number"}
	}

	if f.Minimum != nil && num < *f.Minimum {
		return nil, &shared.FieldViolation{
			Field:   f.FieldName,
			Message: fmt.Sprintf("must be at least %v", *f.Minimum),
		}
	}
	if f.Maximum != nil && num > *f.Maximum {
		return nil, &shared.FieldViolation{
			Field:   f.FieldName,
			Message: fmt.Sprintf("must be at most %v", *f.Maximum),
		}
	}

	return num, nil
}

func coerceBoolean(f BooleanField, value any) (any, *shared.FieldViolation) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, &shared.FieldViolation{Field: f.FieldName, Message: "expected a boolean"}
}

func coerceEnum(f EnumField, value any) (any, *shared.FieldViolation) {
	str, ok := value.(string)
	if !ok {
		return nil, &shared.FieldViolation{Field: f.FieldName, Message: "expected a string"}
	}
	for _, option := range f.Options {
		if str == option {
			return str, nil
		}
	}
	return nil, &shared.FieldViolation{
		Field:   f.FieldName,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(f.Options, ", ")),
	}
}

// isEmpty reports whether a coerced value counts as empty for required
// checks. A boolean false is a real value, not an empty one.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
