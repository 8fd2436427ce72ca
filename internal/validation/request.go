package validation

import (
	"net/http"
	"slices"
	"strings"
)

const (
	ContentTypeJSON = "application/json"

	minUserAgentLength = 10
)

// ValidateOrigin reports whether the Origin header is one of allowed.
// Requests without an Origin are rejected.
func ValidateOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	return slices.Contains(allowed, origin)
}

func ValidateContentType(r *http.Request, expected string) bool {
	if expected == "" {
		expected = ContentTypeJSON
	}
	return strings.Contains(r.Header.Get("Content-Type"), expected)
}

// ValidateRequest runs the request-level checks that precede body parsing and
// returns one message per failure.
func ValidateRequest(r *http.Request, allowed []string) []string {
	var errors []string

	if !ValidateContentType(r, ContentTypeJSON) {
		errors = append(errors, "Invalid Content-Type. Expected application/json")
	}

	if !ValidateOrigin(r, allowed) {
		errors = append(errors, "Invalid origin")
	}

	if len(r.UserAgent()) < minUserAgentLength {
		errors = append(errors, "Invalid User-Agent")
	}

	return errors
}
