package storage

import "errors"

var (
	// ErrStorageInit indicates the storage root could not be prepared.
	// Callers must treat it as fatal to startup.
	ErrStorageInit = errors.New("storage initialization failed")

	// ErrBlobNotFound indicates a locator does not resolve to a stored blob.
	ErrBlobNotFound = errors.New("blob not found")
)
