package api

import (
	"net/http"
	"slices"
)

// apiCSP is the Content-Security-Policy for JSON endpoints, which never
// load resources.
const apiCSP = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

// securityHeaders adds the standard security headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", apiCSP)
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers. An empty allowed list allows every
// origin with "*"; otherwise only listed origins get CORS headers and
// preflights from other origins are refused.
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigin := "*"
		if len(allowed) > 0 {
			origin := r.Header.Get("Origin")
			if !slices.Contains(allowed, origin) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			allowedOrigin = origin
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// originAllowed reports whether a WebSocket handshake origin passes the
// same policy as corsMiddleware. Requests without an Origin header come
// from non-browser clients and are allowed.
func originAllowed(allowed []string, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, origin)
}
