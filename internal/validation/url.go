package validation

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
)

// allowPrivate permits localhost base URLs. Enabled for integration tests
// against httptest servers.
var allowPrivate atomic.Bool

// SetAllowPrivate toggles acceptance of localhost hub URLs.
// Returns a cleanup function that restores the previous value.
func SetAllowPrivate(allowed bool) func() {
	previous := allowPrivate.Load()
	allowPrivate.Store(allowed)
	return func() { allowPrivate.Store(previous) }
}

// ValidateHubURL validates an API base URL before any request is issued.
// The hub speaks HTTPS only; http is accepted solely for localhost when
// private URLs are allowed.
func ValidateHubURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	switch parsed.Scheme {
	case "https":
	case "http":
		if !allowPrivate.Load() {
			return fmt.Errorf("invalid URL scheme: only https is allowed, got %q", parsed.Scheme)
		}
	default:
		return fmt.Errorf("invalid URL scheme: only https is allowed, got %q", parsed.Scheme)
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must contain a hostname")
	}

	if parsed.User != nil {
		return fmt.Errorf("URL must not contain userinfo")
	}

	if !allowPrivate.Load() && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not allowed")
	}

	return nil
}

// isLocalhost checks for localhost variants
func isLocalhost(hostname string) bool {
	switch strings.ToLower(hostname) {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0", "::":
		return true
	}
	return false
}
