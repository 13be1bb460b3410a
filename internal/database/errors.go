package database

import "errors"

// Failure taxonomy shared by every repository. Callers classify with
// errors.Is; the concrete message carries the detail.
var (
	// ErrValidation: caller-supplied data failed a precondition (required
	// field empty, malformed id).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound: a referenced article, group or display id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a unique constraint was violated, e.g. a duplicate group
	// name.
	ErrConflict = errors.New("already exists")

	// ErrInvariant: the operation would break a modeled invariant, e.g.
	// stripping the last admin from a group.
	ErrInvariant = errors.New("invariant violation")

	// ErrStore: the underlying store itself failed.
	ErrStore = errors.New("store failure")
)
