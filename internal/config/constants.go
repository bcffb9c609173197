package config

import "time"

const (
	envDatabaseURL   = "DATABASE_URL"
	envDBMaxConns    = "DB_MAX_CONNS"
	envWorkerWidth   = "PIPELINE_WORKER_WIDTH"
	envCacheDir      = "RESPONSE_CACHE_DIR"
	envTeamAliases   = "TEAM_ALIASES_PATH"
	envVenuesPath    = "VENUES_CSV_PATH"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envBreakerTrip   = "CIRCUIT_BREAKER_TRIP_RATIO"
	envBreakerReset  = "CIRCUIT_BREAKER_RESET"

	defaultDatabaseURL  = "postgres://localhost:5432/nba_ingest?sslmode=disable"
	defaultDBMaxConns   = 10
	defaultWorkerWidth  = 5
	defaultCacheDir     = "data/cache"
	defaultTeamAliases  = "data/reference/team_aliases.yaml"
	defaultVenuesPath   = "data/reference/venues.csv"
	defaultMetricsPort  = "9090"
	defaultBreakerTrip  = 0.6
	defaultBreakerReset = 30 * time.Second
)
