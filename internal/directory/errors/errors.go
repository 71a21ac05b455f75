package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrInvalidID = errors.New("invalid user ID format")

	// ErrStaleStats means the conditional stats update lost a race with a
	// concurrent review; callers reload and retry.
	ErrStaleStats = errors.New("chef statistics changed concurrently")
)
