package search

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvDefaults fills empty config fields from environment variables.
// Explicit config values always win over the environment.
func ApplyEnvDefaults(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Tavily.APIKey == "" {
		cfg.Tavily.APIKey = strings.TrimSpace(os.Getenv("TAVILY_API_KEY"))
	}
	if cfg.Tavily.BaseURL == "" {
		cfg.Tavily.BaseURL = strings.TrimSpace(os.Getenv("TAVILY_BASE_URL"))
	}
	if cfg.Cache.TTLSecs <= 0 {
		cfg.Cache.TTLSecs = envInt("SEARCH_CACHE_TTL_SECONDS")
	}
	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = envInt("SEARCH_CACHE_CAPACITY")
	}
	return cfg.WithDefaults()
}

func envInt(name string) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
