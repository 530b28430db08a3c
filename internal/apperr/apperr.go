// Package apperr holds the error taxonomy shared by the domain packages and
// the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the entity is absent or hidden from the caller's club.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the acting user may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrLockedMatch indicates a mutation on a match that has started or completed.
	ErrLockedMatch = errors.New("match is locked")

	// ErrUnbalancedTeams indicates a start attempt with an empty team.
	ErrUnbalancedTeams = errors.New("both teams need at least one player")

	// ErrValidation indicates missing or inconsistent input.
	ErrValidation = errors.New("invalid request")

	// ErrTransientIO indicates a storage or network failure. The operator may retry.
	ErrTransientIO = errors.New("temporary storage failure")
)

// Invalid returns an ErrValidation carrying a message for the user.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Transient wraps a storage error so that it matches both ErrTransientIO and the cause.
func Transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransientIO, err)
}

// Kind names the taxonomy entry err belongs to, or "internal" when none matches.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrLockedMatch):
		return "locked_match"
	case errors.Is(err, ErrUnbalancedTeams):
		return "unbalanced_teams"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrTransientIO):
		return "transient_io"
	default:
		return "internal"
	}
}
