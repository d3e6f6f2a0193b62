package ports

import (
	"context"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
)

// Default expiration policy for cached solve responses.
const (
	DefaultAbsoluteTTL = time.Hour
	DefaultSlidingTTL  = 30 * time.Minute
)

// Cache stores solve responses keyed by request.
// Implementations must be safe for concurrent use and must return copies,
// so callers can mutate a loaded response without affecting the cache.
type Cache interface {
	// Get returns the cached response for key.
	// Returns domain.ErrCacheMiss if the key is absent or expired.
	// A successful Get extends the entry's sliding expiration.
	Get(ctx context.Context, key string) (*domain.Response, error)

	// Set stores resp under key, replacing any previous entry.
	Set(ctx context.Context, key string, resp *domain.Response) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Expiration combines an absolute lifetime with a sliding idle timeout.
// An entry expires at whichever deadline comes first. Zero disables a bound.
type Expiration struct {
	Absolute time.Duration
	Sliding  time.Duration
}

// DefaultExpiration returns one hour absolute, thirty minutes sliding.
func DefaultExpiration() Expiration {
	return Expiration{Absolute: DefaultAbsoluteTTL, Sliding: DefaultSlidingTTL}
}

// Deadline returns the instant an entry last touched at touched, and created
// at created, stops being served. The zero time means it never expires.
func (e Expiration) Deadline(created, touched time.Time) time.Time {
	var deadline time.Time
	if e.Absolute > 0 {
		deadline = created.Add(e.Absolute)
	}
	if e.Sliding > 0 {
		idle := touched.Add(e.Sliding)
		if deadline.IsZero() || idle.Before(deadline) {
			deadline = idle
		}
	}
	return deadline
}
