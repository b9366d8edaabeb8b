package shared

import "strings"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields lists the offending fields for validation errors so the
	// caller can surface every problem at once, not just the first.
	Fields []FieldViolation `json:"fields,omitempty"`
}

// FieldViolation describes a single field-level constraint breach
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_FAILED error carrying all violated fields
func NewValidationError(fields []FieldViolation) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "Submission data violates the template schema",
		Fields:  fields,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidSchema       = NewDomainError("INVALID_SCHEMA", "Template form schema is malformed")
	ErrUnknownTemplate     = NewDomainError("UNKNOWN_TEMPLATE", "Template does not exist or is archived")
	ErrIllegalTransition   = NewDomainError("ILLEGAL_TRANSITION", "Lifecycle transition not permitted from current state")
	ErrImmutableSubmission = NewDomainError("IMMUTABLE_SUBMISSION", "Completed submissions cannot be modified")
)
