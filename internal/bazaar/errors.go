package bazaar

import "errors"

var (
	// ErrNotFound is returned when no listing exists for an identifier.
	ErrNotFound = errors.New("listing not found")

	// ErrUnauthorized is returned when the caller does not own the listing
	// it is trying to mutate.
	ErrUnauthorized = errors.New("only the owner can upload data")
)
