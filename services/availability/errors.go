package availability

import "fmt"

// ValidationError marks a user-correctable availability request problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
