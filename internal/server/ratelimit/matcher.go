package ratelimit

import (
	"net/http"
	"strings"
)

// MatchEndpoint finds the configuration for a request, or nil when the
// default limit applies. Exact paths win over "/"-terminated prefixes.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == http.MethodGet {
		return &EndpointConfig{Path: path, Method: method} // unlimited
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && strings.EqualFold(config.Method, method) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if strings.EqualFold(config.Method, method) && strings.HasSuffix(config.Path, "/") &&
			strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
