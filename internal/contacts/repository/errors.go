package repository

import "errors"

var (
	// ErrNotFound is returned when no contact is stored under a key
	ErrNotFound = errors.New("contact not found")

	// ErrMissingRunID is returned when a write is not attributed to a run
	ErrMissingRunID = errors.New("run id is required")
)
