package cmd

import (
	"errors"

	"github.com/lukemcguire/linkprobe/checker"
)

// ErrInvalidLinks is returned when --fail-on-invalid is set and at least one
// external link failed validation.
var ErrInvalidLinks = errors.New("invalid links found")

// Process exit codes.
const (
	ExitOK             = 0
	ExitKnownBadStatus = 1
	ExitUnknownStatus  = 2
	ExitSetup          = 3
	ExitInvalidLinks   = 4
)

// ExitCode maps the error a run ended with onto the process exit status.
// Any error outside the page status and invalid link kinds is a setup
// failure: bad input URL, network failure on the page request, robots
// disallow, report write failure or cancellation.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var statusErr *checker.StatusError
	switch {
	case errors.As(err, &statusErr):
		if statusErr.Known {
			return ExitKnownBadStatus
		}
		return ExitUnknownStatus
	case errors.Is(err, ErrInvalidLinks):
		return ExitInvalidLinks
	default:
		return ExitSetup
	}
}
