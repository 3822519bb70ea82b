// Package apperr defines the sentinel errors shared across layers.
// Handlers map them onto HTTP status codes; services and repositories wrap
// them with context using fmt.Errorf and %w.
package apperr

import "errors"

var (
	// ErrValidation marks malformed or missing caller input.
	ErrValidation = errors.New("validation error")

	// ErrDuplicatePhone is returned when registering a phone number that is
	// already taken.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrAuthFailure covers both an unknown phone and a wrong password.
	// Callers must not be able to tell which of the two happened.
	ErrAuthFailure = errors.New("invalid phone number or password")

	// ErrNotFound is returned when a referenced user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrStorageUnavailable marks a transient persistence failure. The caller
	// may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
