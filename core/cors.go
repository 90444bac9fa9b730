package core

import (
	"net/http"
	"strings"
)

const wildcardOrigin = "*"

// CORSPolicy decides which origin, if any, is declared as allowed on API
// responses. The zero value is not usable; build one with ParseCORSPolicy.
type CORSPolicy struct {
	allowAll bool
	origins  map[string]struct{}
}

// ParseCORSPolicy reads a comma separated allow-list. A blank token or the
// literal "*" allows every origin.
func ParseCORSPolicy(token string) CORSPolicy {
	token = strings.TrimSpace(token)
	if token == "" || token == wildcardOrigin {
		return CORSPolicy{allowAll: true}
	}

	origins := make(map[string]struct{})
	for _, part := range strings.Split(token, ",") {
		if part = strings.TrimSpace(part); part != "" {
			origins[part] = struct{}{}
		}
	}
	return CORSPolicy{origins: origins}
}

func (p CORSPolicy) AllowsAll() bool {
	return p.allowAll
}

// Origins returns the literal allow-list; nil in allow-all mode.
func (p CORSPolicy) Origins() []string {
	if p.allowAll {
		return nil
	}
	out := make([]string, 0, len(p.origins))
	for o := range p.origins {
		out = append(out, o)
	}
	return out
}

// AllowedOrigin returns the value for Access-Control-Allow-Origin and
// whether the header should be sent at all.
func (p CORSPolicy) AllowedOrigin(requestOrigin string) (string, bool) {
	if p.allowAll {
		return wildcardOrigin, true
	}
	if requestOrigin == "" {
		return "", false
	}
	if _, ok := p.origins[requestOrigin]; ok {
		return requestOrigin, true
	}
	return "", false
}

// Apply writes the CORS header set for r onto h. Credentials are always
// advertised, with or without an allowed origin; existing clients rely on it.
func (p CORSPolicy) Apply(h http.Header, r *http.Request) {
	if origin, ok := p.AllowedOrigin(r.Header.Get("Origin")); ok {
		h.Set("Access-Control-Allow-Origin", origin)
	}
	h.Set("Access-Control-Allow-Methods", "GET,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Allow-Credentials", "true")
}
