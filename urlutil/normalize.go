package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidTarget is returned when a page URL cannot be checked.
var ErrInvalidTarget = errors.New("invalid target URL")

// ParseTarget validates the URL of the page to check.
// Surrounding whitespace is trimmed; the URL must be absolute http(s) with a
// host. The URL is otherwise left untouched so that its network-location is
// compared against links exactly as typed.
func ParseTarget(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidTarget)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	if !IsHTTPScheme(rawURL) {
		return nil, fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidTarget, rawURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidTarget, rawURL)
	}

	return parsed, nil
}
