package config

// PostgresConfig controls the pgxpool connection used by loaders,
// derived-table writers, and the pipeline checkpoint store.
type PostgresConfig struct {
	URL      string
	MaxConns int32
}

func loadPostgres() PostgresConfig {
	return PostgresConfig{
		URL:      envOrDefault(envDatabaseURL, defaultDatabaseURL),
		MaxConns: int32(intEnvOrDefault(envDBMaxConns, defaultDBMaxConns)),
	}
}
