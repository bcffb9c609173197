package config

import "time"

// SourceName identifies one of the three upstream vendors the ingestion
// engine fetches from. Used as the key for per-source rate limits, cache
// TTL classes, and circuit breakers.
type SourceName string

const (
	SourceNBAStats  SourceName = "nba_stats"
	SourceBref      SourceName = "bref"
	SourceGamebooks SourceName = "gamebooks"
)

// SourceConfig controls fetch behavior for a single upstream vendor.
type SourceConfig struct {
	BaseURL           string
	RequestsPerMinute float64
	Burst             int
	Timeout           time.Duration
}

// SourcesConfig holds one SourceConfig per vendor the ingestion engine
// talks to.
type SourcesConfig struct {
	NBAStats  SourceConfig
	Bref      SourceConfig
	Gamebooks SourceConfig
}

const (
	envNBAStatsBaseURL = "NBA_STATS_BASE_URL"
	envNBAStatsRPM     = "NBA_STATS_REQUESTS_PER_MIN"
	envBrefBaseURL     = "BREF_BASE_URL"
	envBrefRPM         = "BREF_REQUESTS_PER_MIN"
	envGamebooksBase   = "GAMEBOOKS_BASE_URL"
	envGamebooksRPM    = "GAMEBOOKS_REQUESTS_PER_MIN"

	defaultNBAStatsBaseURL = "https://stats.nba.com/stats"
	defaultNBAStatsRPM     = 20.0
	defaultBrefBaseURL     = "https://www.basketball-reference.com"
	defaultBrefRPM         = 10.0
	defaultGamebooksBase   = "https://ak-static.cms.nba.com"
	defaultGamebooksRPM    = 10.0

	defaultSourceBurst   = 1
	defaultSourceTimeout = 30 * time.Second
)

func loadSources() SourcesConfig {
	return SourcesConfig{
		NBAStats: SourceConfig{
			BaseURL:           envOrDefault(envNBAStatsBaseURL, defaultNBAStatsBaseURL),
			RequestsPerMinute: floatEnvOrDefault(envNBAStatsRPM, defaultNBAStatsRPM),
			Burst:             defaultSourceBurst,
			Timeout:           defaultSourceTimeout,
		},
		Bref: SourceConfig{
			BaseURL:           envOrDefault(envBrefBaseURL, defaultBrefBaseURL),
			RequestsPerMinute: floatEnvOrDefault(envBrefRPM, defaultBrefRPM),
			Burst:             defaultSourceBurst,
			Timeout:           defaultSourceTimeout,
		},
		Gamebooks: SourceConfig{
			BaseURL:           envOrDefault(envGamebooksBase, defaultGamebooksBase),
			RequestsPerMinute: floatEnvOrDefault(envGamebooksRPM, defaultGamebooksRPM),
			Burst:             defaultSourceBurst,
			Timeout:           defaultSourceTimeout,
		},
	}
}

// AsMap returns the three source configs keyed by SourceName, for callers
// (ratelimit.Registry, respcache TTL classes) that iterate over sources.
func (s SourcesConfig) AsMap() map[SourceName]SourceConfig {
	return map[SourceName]SourceConfig{
		SourceNBAStats:  s.NBAStats,
		SourceBref:      s.Bref,
		SourceGamebooks: s.Gamebooks,
	}
}
