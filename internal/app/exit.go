package app

import (
	"errors"

	"databazaar/internal/bazaar"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitNotFound     = 3
	ExitUnauthorized = 4
)

// ExitCode maps an operation error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, bazaar.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, bazaar.ErrUnauthorized):
		return ExitUnauthorized
	default:
		return ExitFailure
	}
}
