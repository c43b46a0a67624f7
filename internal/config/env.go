package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overrides configuration values with environment variables:
// PORT, RULES_PATH, LOG_LEVEL, LOG_FORMAT, MAX_BATCH_SIZE,
// VALIDATION_CONCURRENCY, CORS_ORIGINS and TRUSTED_PROXIES (comma-separated).
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("RULES_PATH"); v != "" {
		c.RulesPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		c.TrustedProxies = splitList(v)
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"PORT", &c.Port},
		{"MAX_BATCH_SIZE", &c.MaxBatchSize},
		{"VALIDATION_CONCURRENCY", &c.Concurrency},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", e.key, err)
		}
		*e.target = n
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
