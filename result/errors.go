package result

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrorCategory groups invalid links by why they failed.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryInvalidURL        ErrorCategory = "invalid_url"
	CategoryUnexpectedStatus  ErrorCategory = "unexpected_status"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryRedirectLoop      ErrorCategory = "redirect_loop"
	CategoryUnknown           ErrorCategory = "unknown"
)

var categoryLabels = map[ErrorCategory]string{
	CategoryTimeout:           "Timeouts",
	CategoryDNSFailure:        "DNS Failures",
	CategoryConnectionRefused: "Connection Refused",
	CategoryInvalidURL:        "Invalid URLs",
	CategoryUnexpectedStatus:  "Unexpected Status",
	Category4xx:               "Client Errors (4xx)",
	Category5xx:               "Server Errors (5xx)",
	CategoryRedirectLoop:      "Redirect Loops",
}

// Label returns the heading used when listing links of this category.
func (c ErrorCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Other Errors"
}

// CategorizeStatus returns the category of a link that answered with code.
// Only 200 counts as valid, so every other code has a category.
func CategorizeStatus(code int) ErrorCategory {
	switch {
	case code >= 500:
		return Category5xx
	case code >= 400:
		return Category4xx
	default:
		return CategoryUnexpectedStatus
	}
}

// CategorizeError returns the category of a request that failed before any
// status was observed.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}
	// net/http reports its redirect limit as a plain error.
	if strings.Contains(err.Error(), "stopped after") {
		return CategoryRedirectLoop
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return CategoryConnectionRefused
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case opErr.Timeout():
			return CategoryTimeout
		case opErr.Op == "dial" && opErr.Err != nil && strings.Contains(opErr.Err.Error(), "refused"):
			return CategoryConnectionRefused
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		switch {
		case urlErr.Timeout():
			return CategoryTimeout
		case urlErr.Op == "parse", urlErr.Err != nil && strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme"):
			return CategoryInvalidURL
		}
	}

	return CategoryUnknown
}
