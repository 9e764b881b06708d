package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

// DefaultEndpointConfigs returns the tiered limits for the API routes.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// LLM calls
		{Path: "/api/tailor-resume", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/match-score", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		// Writes
		{Path: "/api/applications/", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/applications/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},

		// Reads and /api/keyword-match fall through to the default limit.
	}
}

// ParseIPList turns a list of addresses, each possibly comma separated,
// into a lookup set.
func ParseIPList(lists ...string) map[string]bool {
	result := make(map[string]bool)
	for _, list := range lists {
		for _, ip := range strings.Split(list, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				result[ip] = true
			}
		}
	}
	return result
}
