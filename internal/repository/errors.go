package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a compare-and-swap save loses the
	// race against a concurrent writer.
	ErrVersionConflict = errors.New("version conflict")
)
