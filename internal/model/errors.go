package model

import "fmt"

// ModelError represents a business-rule violation detected while
// constructing an invoice entity. Construction is fail-fast: the first
// rule violated wins and no further fields are inspected.
type ModelError struct {
	Field   string
	Message string
}

func (e *ModelError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid invoice model: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid invoice model: %s", e.Message)
}

// NewModelError creates a new model error.
func NewModelError(field, message string) *ModelError {
	return &ModelError{Field: field, Message: message}
}

func errForbiddenBelow(role Role, field string, min Profile) *ModelError {
	return NewModelError(field, fmt.Sprintf("%s %s is not allowed below the %s profile", role, field, min))
}

func errForbidden(role Role, field string) *ModelError {
	return NewModelError(field, fmt.Sprintf("%s %s is not allowed", role, field))
}

func errRequired(role Role, field string) *ModelError {
	return NewModelError(field, fmt.Sprintf("%s %s is required", role, field))
}
