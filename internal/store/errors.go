package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing row and a row owned by another
	// user; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when ownership of an explicitly referenced
	// conversation does not match the authenticated user.
	ErrForbidden = errors.New("resource owned by another user")

	ErrDuplicateEmail = errors.New("email already exists")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
