package crawl

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a domain's limiter may sit unused before it
// is evicted. Long enough that any single-token bucket has fully refilled,
// so recreating the limiter never grants a request early.
const limiterIdleTTL = 10 * time.Minute

// DomainLimiter provides per-domain rate limiting using token buckets.
// It creates a separate rate limiter for each domain, allowing concurrent
// extraction of different sites while staying polite within each one.
// Limiters idle past limiterIdleTTL are evicted so batch runs over many
// domains do not grow the map without bound.
type DomainLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     float64
	now     func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests
// per second limit. Each domain gets its own limiter with a burst of 1
// (no bursting allowed).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		entries: make(map[string]*limiterEntry),
		rps:     rps,
		now:     time.Now,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()

	now := d.now()
	for key, entry := range d.entries {
		if now.Sub(entry.lastUsed) > limiterIdleTTL {
			delete(d.entries, key)
		}
	}

	entry, ok := d.entries[domain]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(d.rps), 1)}
		d.entries[domain] = entry
	}
	entry.lastUsed = now
	d.mu.Unlock()

	return entry.limiter.Wait(ctx)
}
