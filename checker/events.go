package checker

import "github.com/lukemcguire/linkprobe/result"

// Stage identifies the pipeline step an Event reports on.
type Stage int

const (
	StageFetched Stage = iota
	StageClassified
	StageValidated
)

// Event reports pipeline progress. StageValidated events are sent once per
// probed external link.
type Event struct {
	Stage         Stage
	URL           string
	StatusCode    int
	Error         string
	ErrorCategory result.ErrorCategory
	Checked       int
	Total         int
	Valid         int
	Invalid       int
}
