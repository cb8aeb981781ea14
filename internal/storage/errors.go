package storage

import "errors"

// Sentinel errors returned by the storage services. Callers classify
// failures with errors.Is and map them to transport-level codes.
var (
	// ErrNotFound is returned when a referenced page, section, or media
	// row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed inputs, such as an
	// empty update or a reorder set that does not match the sibling group.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is returned when a page slug is already taken.
	ErrConflict = errors.New("conflict")
	// ErrDependency is returned when the blob store fails during an
	// operation that cannot tolerate it (uploads).
	ErrDependency = errors.New("dependency failure")
)
