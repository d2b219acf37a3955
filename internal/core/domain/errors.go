package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedEquipment indicates an equipment key with no schema in the catalog.
	ErrUnsupportedEquipment = errors.New("unsupported equipment")

	// ErrInvalidPath indicates a field path that does not address a document field.
	ErrInvalidPath = errors.New("invalid field path")

	// ErrInvalidSchema indicates a schema that violates catalog invariants.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrDisposed indicates an operation on a closed form session.
	ErrDisposed = errors.New("session disposed")

	// Storage Errors.

	// ErrStorage indicates the draft store failed to read or write.
	ErrStorage = errors.New("storage failure")

	// ErrStorageUnavailable indicates the configured draft store could not be opened.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Remote API Errors.

	// ErrRemoteRejected indicates the report API answered with ok=false.
	ErrRemoteRejected = errors.New("remote request rejected")

	// ErrRemoteUnavailable indicates the report API could not be reached.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
)
