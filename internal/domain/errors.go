package domain

import (
	"errors"
	"fmt"
)

// ErrCacheMiss indicates no cached entry was found, or the found entry had
// already expired.
var ErrCacheMiss = errors.New("cache miss")

// DimensionMismatchError indicates a similarity computation over vectors of
// different length. This is a configuration error (mixed embedding models)
// and is never recovered.
type DimensionMismatchError struct {
	LenA int
	LenB int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: %d vs %d", e.LenA, e.LenB)
}

// StorageQuotaError indicates a durable-tier write failed because the backing
// store is out of space. Callers swallow it and degrade to memory-tier-only.
type StorageQuotaError struct {
	Key string
	Err error
}

func (e *StorageQuotaError) Error() string {
	return fmt.Sprintf("durable cache write rejected for key %q: %v", e.Key, e.Err)
}

func (e *StorageQuotaError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a malformed cache key, pattern, or request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
