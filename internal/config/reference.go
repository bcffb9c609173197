package config

// ReferenceConfig holds the paths to the read-only reference data loaded
// once at startup: team tricode aliases and venue coordinates/timezones.
type ReferenceConfig struct {
	TeamAliasesPath string
	VenuesPath      string
	CacheDir        string
}

func loadReference() ReferenceConfig {
	return ReferenceConfig{
		TeamAliasesPath: envOrDefault(envTeamAliases, defaultTeamAliases),
		VenuesPath:      envOrDefault(envVenuesPath, defaultVenuesPath),
		CacheDir:        envOrDefault(envCacheDir, defaultCacheDir),
	}
}
