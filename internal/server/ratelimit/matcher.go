package ratelimit

import "strings"

// unlimited is returned for endpoints that are never rate limited.
var unlimited = EndpointConfig{}

// MatchEndpoint finds the configuration for a request path and method, or nil when none
// applies. Exact paths win over prefixes; a configured path ending in "/" matches
// everything below it, so "/postings/" covers "/postings/parse".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		ec := unlimited
		return &ec
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	var best *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if ec.Method != method || !strings.HasSuffix(ec.Path, "/") || !strings.HasPrefix(path, ec.Path) {
			continue
		}
		if best == nil || len(ec.Path) > len(best.Path) {
			best = ec
		}
	}
	return best
}
