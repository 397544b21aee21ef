package domain

import "errors"

// ErrNotFound is returned when no record exists for the given id
var ErrNotFound = errors.New("record not found")

// ConflictError signals a uniqueness or open-request conflict with a
// user-facing message
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict creates a conflict error with the given message
func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
