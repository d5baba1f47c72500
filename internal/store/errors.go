package store

import "errors"

var (
	// ErrNotFound is returned when a record with the requested identifier
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRecord is returned when a record fails validation.
	ErrInvalidRecord = errors.New("invalid record")
)
