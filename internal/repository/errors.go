package repository

import "errors"

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an update's version stamp no longer
	// matches the stored row.
	ErrConflict = errors.New("record was modified concurrently")
)
