// Package circuitbreaker wraps sony/gobreaker with one named breaker per
// upstream vendor so a vendor having a bad day stops drawing fetch
// attempts for a cooldown period instead of retrying into a wall.
package circuitbreaker

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// Config controls trip/reset behavior shared by every vendor breaker.
type Config struct {
	TripRatio  float64
	ResetAfter time.Duration
}

// Registry keeps one gobreaker.CircuitBreaker per vendor.
type Registry struct {
	cfg      Config
	rec      *metrics.Recorder
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewRegistry builds a Registry; breakers are created lazily on first use
// of a given vendor name.
func NewRegistry(cfg Config, rec *metrics.Recorder) *Registry {
	return &Registry{cfg: cfg, rec: rec, breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

func (r *Registry) breaker(vendor string) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[vendor]; ok {
		return b
	}

	settings := gobreaker.Settings{
		Name:        vendor,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     r.cfg.ResetAfter,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= r.cfg.TripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.rec.RecordBreakerTransition(name, from.String(), to.String())
		},
	}

	b := gobreaker.NewCircuitBreaker(settings)
	r.breakers[vendor] = b
	return b
}

// Execute runs fn through the named vendor's breaker, short-circuiting
// immediately when the breaker is open.
func (r *Registry) Execute(ctx context.Context, vendor string, fn func(context.Context) error) error {
	_, err := r.breaker(vendor).Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	return err
}
