package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every ValidationError unwraps to exactly one of these.
var (
	ErrInvalidFormat   = errors.New("invalid format")
	ErrConflict        = errors.New("conflict")
	ErrOutOfRange      = errors.New("out of range")
	ErrNotFound        = errors.New("not found")
	ErrPartialNotFound = errors.New("partially not found")
)

// ValidationError describes a rejected input with the offending field and value
type ValidationError struct {
	Kind    error
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

// Unwrap returns the error kind so callers can use errors.Is
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Code returns a stable machine readable code for the error kind
func (e *ValidationError) Code() string {
	return KindCode(e.Kind)
}

// Extensions exposes the structured context to GraphQL error responses
func (e *ValidationError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":  e.Code(),
		"field": e.Field,
		"value": e.Value,
	}
}

// KindCode maps an error kind to its code, or INTERNAL for anything else
func KindCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return "INVALID_FORMAT"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrOutOfRange):
		return "OUT_OF_RANGE"
	case errors.Is(err, ErrPartialNotFound):
		return "PARTIAL_NOT_FOUND"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

func newError(kind error, field, value, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Value: value, Message: message}
}

// NotFoundError reports a missing entity referenced by field
func NotFoundError(field, value, message string) *ValidationError {
	return newError(ErrNotFound, field, value, message)
}

// ConflictError reports a uniqueness violation on field
func ConflictError(field, value, message string) *ValidationError {
	return newError(ErrConflict, field, value, message)
}

// PartialNotFoundError reports that only some of the referenced ids exist
func PartialNotFoundError(field, missing, message string) *ValidationError {
	return newError(ErrPartialNotFound, field, missing, message)
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
