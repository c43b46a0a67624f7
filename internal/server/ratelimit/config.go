package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables. Unparseable values fall back to the defaults.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		Whitelist:       ipSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint tiers of the validator API.
// /health and /metrics are unlimited and handled by MatchEndpoint.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Batch validation is the most expensive request
		{Path: "/api/v1/profiles/validate/batch", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		{Path: "/api/v1/profiles/validate", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},

		// Single checks and domain lookups
		{Path: "/api/v1/tasks/check", Method: "POST", Limit: 600, Window: time.Minute, Burst: 60},
		{Path: "/api/v1/skills/check", Method: "POST", Limit: 600, Window: time.Minute, Burst: 60},
		{Path: "/api/v1/domains", Method: "GET", Limit: 600, Window: time.Minute, Burst: 60},
		{Path: "/api/v1/domains/", Method: "GET", Limit: 600, Window: time.Minute, Burst: 60},
	}
}

func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// ipSet parses a comma-separated list of client IPs
func ipSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
