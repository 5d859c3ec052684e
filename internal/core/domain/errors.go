package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("domain: not found")
	// ErrIntegrityConflict is returned when a write violates a uniqueness constraint.
	ErrIntegrityConflict = errors.New("domain: integrity conflict")
	// ErrInvalidArgument is returned for malformed input.
	ErrInvalidArgument = errors.New("domain: invalid argument")
)
