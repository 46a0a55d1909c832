// Package result holds the typed output of a link check: the classified link
// sets, the per-link probe outcomes and run statistics.
package result

import (
	"strconv"
	"time"
)

// ClassifiedLinks splits the cleaned links of a page by site membership.
type ClassifiedLinks struct {
	Internal []string // Links judged to reference the checked site
	External []string // Links judged to reference another site
}

// LinkStatus is the outcome of probing one external link. It holds either an
// HTTP status code or a request failure message, never both.
type LinkStatus struct {
	URL        string        // The probed link, exactly as found on the page
	StatusCode int           // Final HTTP status after redirects (0 on failure)
	Err        string        // Request failure message (empty on response)
	Category   ErrorCategory // Classification of a non-200 outcome
}

// Status records a link that answered with an HTTP status code.
func Status(url string, code int) LinkStatus {
	s := LinkStatus{URL: url, StatusCode: code}
	if code != 200 {
		s.Category = CategorizeStatus(code)
	}
	return s
}

// Failure records a link whose request failed before a status was observed.
func Failure(url string, err error) LinkStatus {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return LinkStatus{
		URL:      url,
		Err:      msg,
		Category: CategorizeError(err),
	}
}

// Failed reports whether the request failed outright.
func (s LinkStatus) Failed() bool {
	return s.Err != ""
}

// Valid reports whether the link resolved with exactly HTTP 200.
func (s LinkStatus) Valid() bool {
	return !s.Failed() && s.StatusCode == 200
}

// Value returns the recorded value as shown in reports: the numeric status
// code, or "Error: <message>" for a failed request.
func (s LinkStatus) Value() string {
	if s.Failed() {
		return "Error: " + s.Err
	}
	return strconv.Itoa(s.StatusCode)
}

// Validation holds the probe outcome of every external link. A link appears
// in exactly one of Valid or Invalid.
type Validation struct {
	Valid   []LinkStatus
	Invalid []LinkStatus
}

// Add files a status under Valid or Invalid.
func (v *Validation) Add(s LinkStatus) {
	if s.Valid() {
		v.Valid = append(v.Valid, s)
		return
	}
	v.Invalid = append(v.Invalid, s)
}

// Len returns the number of probed links.
func (v Validation) Len() int {
	return len(v.Valid) + len(v.Invalid)
}

// Stats contains aggregate statistics for one run.
type Stats struct {
	Internal int           // Number of internal links
	External int           // Number of external links probed
	Valid    int           // External links that returned 200
	Invalid  int           // External links that did not
	Duration time.Duration // Total time taken for the run
}

// Result represents the complete output of a single page check.
type Result struct {
	PageURL    string
	PageStatus int
	PageLength int
	Links      ClassifiedLinks
	Validation Validation
	Stats      Stats
}

// HasInvalidLinks reports whether any external link failed validation.
func (r *Result) HasInvalidLinks() bool {
	return r != nil && len(r.Validation.Invalid) > 0
}
