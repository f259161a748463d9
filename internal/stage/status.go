// Package stage tracks the status of an ordered list of named stages.
// It supports strictly sequential runs, where moving to a stage recomputes
// the status of every other stage, and parallel runs, where each stage is
// only changed by explicit calls.
package stage

import apperrors "github.com/ariel-frischer/multistage/internal/errors"

// Status is the state of a single stage.
type Status int

const (
	// Pending is the initial status of every stage
	Pending Status = iota
	// Current means the stage is running
	Current
	// Completed means the stage finished successfully
	Completed
	// Failed means the stage finished with an error
	Failed
	// Skipped means the stage was jumped over
	Skipped
	// Paused means the stage was started and is on hold
	Paused
	// Aborted means the stage was cancelled before it finished
	Aborted
	// Async means the stage continues in the background
	Async
	// Warning means the stage finished with warnings
	Warning
)

var statusNames = [...]string{
	Pending:   "pending",
	Current:   "current",
	Completed: "completed",
	Failed:    "failed",
	Skipped:   "skipped",
	Paused:    "paused",
	Aborted:   "aborted",
	Async:     "async",
	Warning:   "warning",
}

// String returns the lower-case status name
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// IsTerminal reports whether the status ends the stage for good.
func (s Status) IsTerminal() bool {
	switch s {
	case Completed, Failed, Skipped, Aborted:
		return true
	default:
		return false
	}
}

// isSticky reports whether sequential refreshes must leave the status alone.
func (s Status) isSticky() bool {
	return s == Skipped || s == Failed
}

// stopsTimer reports whether a parallel update to s stops the stage timer.
func (s Status) stopsTimer() bool {
	return s == Completed || s == Failed || s == Aborted
}

// StatusNames returns every status name in declaration order.
func StatusNames() []string {
	names := make([]string, len(statusNames))
	copy(names, statusNames[:])
	return names
}

// ParseStatus converts a status name back to a Status.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return Pending, apperrors.UnknownStatus(name, StatusNames())
}
