package lifecycle

import "time"

// Handler receives completion callbacks. Implementations must tolerate
// being called from any goroutine.
type Handler interface {
	// OnCommandStart is called before a command runs.
	OnCommandStart(name string)
	// OnCommandComplete is called when a command returns.
	OnCommandComplete(name string, success bool, duration time.Duration)
}
