package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/ats-tailor/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig builds the limiter configuration from the relay's rate limit settings.
func NewConfig(c config.RateLimitConfig) *Config {
	if !c.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    c.DefaultLimit,
		DefaultWindow:   c.DefaultWindow,
		CleanupInterval: c.CleanupInterval,
		Whitelist:       toSet(c.Whitelist),
		Blacklist:       toSet(c.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Server-side facade calls spend the server's own credential
		{Path: "/api/assess", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/adapt", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Relayed calls carry the caller's credential
		{Path: "/api/openai", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/anthropic", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Everything else uses the default limit; /health is unlimited (see matcher)
	}
}

// toSet turns a list of client addresses into a lookup set, dropping blanks.
// A single entry may itself be comma-separated, as env values arrive that way.
func toSet(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, entry := range list {
		for _, ip := range strings.Split(entry, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				result[ip] = true
			}
		}
	}
	return result
}
