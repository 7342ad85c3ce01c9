// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

const (
	corsAllowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, " + RequestIDHeader
	corsMaxAge       = 10 * time.Minute
)

// CORS allows credentialed cross-origin requests from origins matching a
// glob allowlist. '*' stops at dots, so https://*.taskshare.app does not
// match https://evil.example.taskshare.app.
type CORS struct {
	origins []glob.Glob
}

// NewCORS compiles the allowed origin patterns. An empty list allows no
// cross-origin requests.
func NewCORS(patterns []string) (*CORS, error) {
	c := &CORS{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("pattern", p).Wrapf(err, "invalid CORS origin pattern")
		}
		c.origins = append(c.origins, g)
	}
	return c, nil
}

// Allowed reports whether origin matches the allowlist.
func (c *CORS) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, g := range c.origins {
		if g.Match(origin) {
			return true
		}
	}
	return false
}

// Middleware adds CORS headers for allowed origins and answers preflight
// requests with 204 before they reach the router.
func (c *CORS) Middleware(next http.Handler) http.Handler {
	if len(c.origins) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Add("Vary", "Origin")
		if !c.Allowed(origin) {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.Set("Access-Control-Expose-Headers", RequestIDHeader)
		next.ServeHTTP(w, r)
	})
}
