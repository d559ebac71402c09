package database

import "errors"

var (
	// ErrKeyNotFound is returned by a KV when the key has no value.
	ErrKeyNotFound = errors.New("key not found")

	// ErrChunkMissing is returned when a chunked payload references a chunk
	// entry that is absent from the store.
	ErrChunkMissing = errors.New("chunk missing")

	// ErrTooManyChunks is returned when a payload would need more chunk
	// entries than the configured ceiling. Nothing is written in that case.
	ErrTooManyChunks = errors.New("too many chunks")

	// ErrStorageUnavailable is returned when the catalog database cannot be
	// reached. Callers fall back to cached or seed data.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
