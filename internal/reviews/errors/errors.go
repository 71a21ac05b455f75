package errors

import "errors"

var (
	// ErrDuplicateReview means this customer already reviewed this event;
	// the unique index rejected the insert.
	ErrDuplicateReview = errors.New("event already reviewed by this customer")
)
