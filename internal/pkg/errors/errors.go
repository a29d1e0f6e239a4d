package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the resource exists but belongs to someone else.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is returned when a unique resource already exists.
	ErrConflict = errors.New("conflict")
)
