// Package ratelimit provides a per-source token bucket gate shared by the
// HTTP fetcher. One bucket per upstream vendor (nba_stats, bref,
// gamebooks) refills continuously and blocks callers until a token is
// available, rather than rejecting outright.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Bucket wraps *rate.Limiter for a single source.
type Bucket struct {
	limiter *rate.Limiter
}

// NewBucket builds a Bucket that allows requestsPerMinute requests per
// minute on average, with burst concurrent requests permitted before
// throttling kicks in.
func NewBucket(requestsPerMinute float64, burst int) *Bucket {
	if burst < 1 {
		burst = 1
	}
	return &Bucket{limiter: rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst)}
}

// Acquire blocks until n tokens are available or ctx is done.
func (b *Bucket) Acquire(ctx context.Context, n int) error {
	return b.limiter.WaitN(ctx, n)
}

// Registry keeps one Bucket per source behind a map guarded by a mutex,
// so it can be constructed once and shared across every fetcher goroutine
// as the single rate-limiting gate for a given vendor.
type Registry struct {
	mu      sync.RWMutex
	buckets map[string]*Bucket
}

// NewRegistry returns an empty Registry. Call Register for each source
// before Acquire is used against it.
func NewRegistry() *Registry {
	return &Registry{buckets: make(map[string]*Bucket)}
}

// Register installs a Bucket for source, replacing any existing one.
func (r *Registry) Register(source string, requestsPerMinute float64, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets[source] = NewBucket(requestsPerMinute, burst)
}

// Acquire blocks on the bucket registered for source until n tokens are
// available. A source with no registered bucket proceeds unthrottled.
func (r *Registry) Acquire(ctx context.Context, source string, n int) error {
	r.mu.RLock()
	b, ok := r.buckets[source]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return b.Acquire(ctx, n)
}
