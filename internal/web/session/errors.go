package session

import "errors"

var (
	// ErrUnknownVisitor is returned when no state is stored for a visitor cookie.
	ErrUnknownVisitor = errors.New("unknown visitor")

	// ErrStorageIsNil is returned by NewRegistry without a storage backend.
	ErrStorageIsNil = errors.New("visitor storage is nil")

	// ErrClientIsNil is returned by NewRegistry without an API client.
	ErrClientIsNil = errors.New("api client is nil")
)
