// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired indicates a mutating operation was invoked without an authenticated user.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnauthorized indicates failed authentication or an ownership check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation")

	// ErrUpstream indicates a catalog API transport failure.
	ErrUpstream = errors.New("upstream")
)
