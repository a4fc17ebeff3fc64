package shared

import (
	"os"
	"time"
)

// RateLimitConfig is a request budget within a time window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ResponseCacheConfig controls response caching for a route.
type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// AppConfig general application configuration for the API server.
type AppConfig struct {
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	CacheConfigs map[string]ResponseCacheConfig

	Environment string
}

// GetDefaultConfig returns the development defaults. GIN_MODE=release flips
// the environment to production.
func GetDefaultConfig() *AppConfig {
	config := &AppConfig{
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /api/auth/signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /api/auth/login": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/api/todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]ResponseCacheConfig{
			"GET /api/todos": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
			"GET /api/todos/dashboard/stats": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
		},
		Environment: "development",
	}

	if os.Getenv("GIN_MODE") == "release" {
		config.Environment = "production"
	}

	return config
}
