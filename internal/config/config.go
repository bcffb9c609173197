package config

import (
	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the ingestion engine.
type Config struct {
	Postgres    PostgresConfig
	Sources     SourcesConfig
	Reference   ReferenceConfig
	Breaker     BreakerConfig
	Metrics     MetricsConfig
	WorkerWidth int
}

// Load reads configuration from environment variables with sensible
// defaults. It first loads a local .env file if one is present (ignored
// if missing, exactly like the teacher's dev workflow expects) so local
// runs don't need real shell exports.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Postgres:    loadPostgres(),
		Sources:     loadSources(),
		Reference:   loadReference(),
		Breaker:     loadBreaker(),
		Metrics:     loadMetrics(),
		WorkerWidth: intEnvOrDefault(envWorkerWidth, defaultWorkerWidth),
	}
}
