package domain

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ErrInternal is returned when solving fails unexpectedly.
// Callers must not expose the underlying cause to clients.
var ErrInternal = errors.New("internal error")

// ErrTimeout is returned when the caller's context ends before a result is ready.
var ErrTimeout = errors.New("request timed out")

// ErrCacheMiss is returned by caches when no live entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// ValidationError lists every rule violated by a Request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
