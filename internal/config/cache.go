package config

import (
	"time"
)

// CacheConfig controls the Redis response cache middleware. Only GET
// responses are cached; cache keys always include the authenticated tenant
// so one tenant's cached body can never be served to another.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from environment variables, with
// defaults suitable for development.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
