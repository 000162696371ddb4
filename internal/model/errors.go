package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not resolve under the
	// caller's user scope.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly is returned when a migrated row would be edited, or when
	// a chain-critical row would be deleted on its own.
	ErrReadOnly = errors.New("entry is read-only")

	// ErrInvariantViolation is returned when a daily task has no anchor.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInvalidTransition is returned when a terminal row would move to a
	// different status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput is returned for malformed arguments or for an
	// operation applied to the wrong kind of row.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write collides with a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

// InvariantError reports a daily task entry that lacks its anchor.
type InvariantError struct {
	EntryID string
	Reason  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation on entry %s: %s", e.EntryID, e.Reason)
}

// Is makes errors.Is(err, ErrInvariantViolation) match.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolation
}
