package stage

import "time"

// stopwatch accumulates the time a stage spends running. Pausing and
// resuming adds up the active intervals rather than starting over.
type stopwatch struct {
	started   bool
	running   bool
	since     time.Time
	collected time.Duration
}

func (w *stopwatch) start(now time.Time) {
	if w.running {
		return
	}
	w.started = true
	w.running = true
	w.since = now
}

func (w *stopwatch) stop(now time.Time) {
	if !w.running {
		return
	}
	w.collected += now.Sub(w.since)
	w.running = false
}

func (w *stopwatch) elapsed(now time.Time) time.Duration {
	if w.running {
		return w.collected + now.Sub(w.since)
	}
	return w.collected
}
