package core

import "errors"

// Common errors.
var (
	// ErrNoteNotFound is returned when the note service has no note with
	// the requested name.
	ErrNoteNotFound = errors.New("note not found")

	// ErrMenuNotFound is returned when every resolution tier has been
	// exhausted without a match.
	ErrMenuNotFound = errors.New("menu not found")

	// ErrCatalogNotFound is returned when a catalog namespace has never
	// been persisted.
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrDecodeFailure is returned when a note expected to carry a
	// structured payload yields nothing from either its text or its
	// attachments.
	ErrDecodeFailure = errors.New("note carries no decodable payload")

	// ErrStoreReadOnly is returned by catalog stores opened read-only.
	ErrStoreReadOnly = errors.New("catalog store is in read-only mode")
)
