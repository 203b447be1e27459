package model

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable indicates a transient persistence failure,
	// distinct from a missing entity.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrValidation indicates a request missing required fields.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict indicates a uniqueness violation, e.g. a taken email.
	ErrConflict = errors.New("already exists")
)
