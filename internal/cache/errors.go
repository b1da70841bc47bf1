package cache

import "errors"

// Error taxonomy for the engine's public operations. The HTTP adapter maps
// each to a status code (see internal/httpapi): ErrNotFound -> 404,
// ErrEntryTooLarge -> 413, ErrCapacityExceeded -> 507, ErrInvalidKey and
// ErrInvalidTTL -> 400, ErrShuttingDown -> 503.
var (
	// ErrNotFound is returned when a key is absent or has expired at read time.
	ErrNotFound = errors.New("cache: key not found")
	// ErrEntryTooLarge is returned when a single value's estimated size exceeds max_bytes.
	ErrEntryTooLarge = errors.New("cache: entry exceeds max bytes")
	// ErrCapacityExceeded is returned when the eviction loop cannot free enough
	// space to admit a new entry.
	ErrCapacityExceeded = errors.New("cache: capacity exceeded")
	// ErrInvalidKey is returned for a zero-length or over-length key.
	ErrInvalidKey = errors.New("cache: invalid key")
	// ErrInvalidTTL is returned for a non-positive ttl.
	ErrInvalidTTL = errors.New("cache: invalid ttl")
	// ErrShuttingDown is returned when the engine rejects an operation because
	// shutdown is in progress.
	ErrShuttingDown = errors.New("cache: engine is shutting down")
)
