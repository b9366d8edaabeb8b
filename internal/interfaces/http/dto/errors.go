package dto

import "net/http"

// Domain error codes surfaced over HTTP
const (
	ErrCodeInvalidSchema       = "INVALID_SCHEMA"
	ErrCodeUnknownTemplate     = "UNKNOWN_TEMPLATE"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeIllegalTransition   = "ILLEGAL_TRANSITION"
	ErrCodeImmutableSubmission = "IMMUTABLE_SUBMISSION"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeEntryNotFound       = "ENTRY_NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Business rule rejections map to 422 so callers can distinguish a
// malformed request (400) from a well-formed one the domain refuses.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInvalidSchema:       http.StatusUnprocessableEntity,
	ErrCodeUnknownTemplate:     http.StatusUnprocessableEntity,
	ErrCodeValidationFailed:    http.StatusUnprocessableEntity,
	ErrCodeIllegalTransition:   http.StatusUnprocessableEntity,
	ErrCodeImmutableSubmission: http.StatusUnprocessableEntity,
	ErrCodeInvalidStatus:       http.StatusUnprocessableEntity,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeEntryNotFound: http.StatusNotFound,

	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,

	ErrCodeForbidden:   http.StatusForbidden,
	ErrCodeRateLimited: http.StatusTooManyRequests,
	ErrCodeInternal:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
