package vault

import "errors"

var (
	// ErrEntryNotFound is returned when no live entry exists for the id.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrCategoryNotFound is returned when no category exists for the id.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrStaleWrite is returned when an update is based on an outdated
	// snapshot of the entry: the replacement's UpdatedAt is not newer than
	// the stored one. The caller should refetch and retry.
	ErrStaleWrite = errors.New("stale write: entry was modified since it was read")

	// ErrInvalidEntry is returned when a mutation carries no usable data
	// (e.g. an empty id on update).
	ErrInvalidEntry = errors.New("invalid entry data provided")
)
