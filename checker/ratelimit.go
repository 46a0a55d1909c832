package checker

import (
	"golang.org/x/time/rate"
)

// newPacer returns the limiter that spaces out link probes. A non-positive
// rate disables pacing so probes run back to back.
func newPacer(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
