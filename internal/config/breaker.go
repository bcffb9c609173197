package config

import "time"

// BreakerConfig controls the sony/gobreaker settings applied to each
// vendor's circuit breaker.
type BreakerConfig struct {
	TripRatio  float64
	ResetAfter time.Duration
}

func loadBreaker() BreakerConfig {
	return BreakerConfig{
		TripRatio:  floatEnvOrDefault(envBreakerTrip, defaultBreakerTrip),
		ResetAfter: durationEnvOrDefault(envBreakerReset, defaultBreakerReset),
	}
}
