package middleware

import (
	"net/http"
	"slices"
	"strings"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"font-src 'self'; " +
	"connect-src 'self'; " +
	"media-src 'none'; " +
	"object-src 'none'; " +
	"frame-src 'none';"

var securityHeaders = [][2]string{
	{"X-DNS-Prefetch-Control", "off"},
	{"X-Download-Options", "noopen"},
	{"X-Permitted-Cross-Domain-Policies", "none"},
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
	{"Content-Security-Policy", contentSecurityPolicy},
}

// Security sets the hardening headers on every response. HSTS is only sent in
// production, where the site is served over TLS.
func Security(production bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range securityHeaders {
			h.Set(kv[0], kv[1])
		}
		if production {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}

// CORS echoes the request Origin when it is allowed. Methods and headers are
// always advertised.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Add("Vary", "Origin")

		if origin := r.Header.Get("Origin"); origin != "" && slices.Contains(allowedOrigins, origin) {
			h.Set("Access-Control-Allow-Origin", origin)
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

var sensitivePaths = []string{
	"/.env",
	"/.env.local",
	"/.env.production",
	"/package.json",
	"/package-lock.json",
	"/pnpm-lock.yaml",
	"/yarn.lock",
	"/.git",
	"/.gitignore",
	"/README.md",
	"/security.md",
}

// BlockSensitivePaths hides repository and environment files behind a 404.
func BlockSensitivePaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range sensitivePaths {
			if strings.HasPrefix(r.URL.Path, p) {
				http.Error(w, "Not Found", http.StatusNotFound)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
