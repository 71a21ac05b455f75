package errors

import "errors"

var (
	ErrNotFound = errors.New("event not found")

	ErrInvalidID = errors.New("invalid event ID format")

	// ErrStaleStatus means the conditional status update matched nothing:
	// another writer moved the event first.
	ErrStaleStatus = errors.New("event status changed concurrently")

	ErrCounterUnavailable = errors.New("order number counter unavailable")
)
