package stage

import (
	"iter"
	"slices"
	"time"
)

// RefreshOptions controls a sequential Refresh.
type RefreshOptions struct {
	// FinalStatus, when set, is applied to the target stage instead of Current.
	FinalStatus *Status
	// BypassStatus is given to untouched stages before the target. Defaults to Completed.
	BypassStatus Status
}

// Final returns RefreshOptions that finish the target stage with status s.
func Final(s Status) RefreshOptions {
	return RefreshOptions{FinalStatus: &s}
}

// Bypass returns RefreshOptions that mark skipped-over pending stages with s.
func Bypass(s Status) RefreshOptions {
	return RefreshOptions{BypassStatus: s}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now for stage timers.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// Tracker owns the status of every declared stage. Stage names are fixed at
// construction; calls naming an unknown stage are ignored.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	names         []string
	index         map[string]int
	statuses      map[string]Status
	timers        map[string]*stopwatch
	current       []string
	allowParallel bool
	now           func() time.Time
}

// NewTracker creates a tracker with every stage pending. An empty list is a
// valid zero-stage run. Repeated names keep their first position.
func NewTracker(names []string, allowParallel bool, opts ...Option) *Tracker {
	t := &Tracker{
		index:         make(map[string]int, len(names)),
		statuses:      make(map[string]Status, len(names)),
		timers:        make(map[string]*stopwatch, len(names)),
		allowParallel: allowParallel,
		now:           time.Now,
	}
	for _, name := range names {
		if _, dup := t.index[name]; dup {
			continue
		}
		t.index[name] = len(t.names)
		t.names = append(t.names, name)
		t.statuses[name] = Pending
		t.timers[name] = &stopwatch{}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of stages.
func (t *Tracker) Len() int {
	return len(t.names)
}

// AllowParallel reports whether several stages may be current at once.
func (t *Tracker) AllowParallel() bool {
	return t.allowParallel
}

// Names returns the stage names in execution order.
func (t *Tracker) Names() []string {
	return slices.Clone(t.names)
}

// Get returns the status of a stage, or false if it was never declared.
func (t *Tracker) Get(name string) (Status, bool) {
	s, ok := t.statuses[name]
	return s, ok
}

// IndexOf returns the ordinal of a stage, or -1.
func (t *Tracker) IndexOf(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Current returns the current stages in the order they became current.
func (t *Tracker) Current() []string {
	return slices.Clone(t.current)
}

// CurrentStage returns the first current stage.
func (t *Tracker) CurrentStage() (string, bool) {
	if len(t.current) == 0 {
		return "", false
	}
	return t.current[0], true
}

// All iterates (name, status) pairs in execution order.
func (t *Tracker) All() iter.Seq2[string, Status] {
	return func(yield func(string, Status) bool) {
		for _, name := range t.names {
			if !yield(name, t.statuses[name]) {
				return
			}
		}
	}
}

// Values iterates statuses in execution order.
func (t *Tracker) Values() iter.Seq[Status] {
	return func(yield func(Status) bool) {
		for _, name := range t.names {
			if !yield(t.statuses[name]) {
				return
			}
		}
	}
}

// Elapsed returns the accumulated running time of a stage.
func (t *Tracker) Elapsed(name string) time.Duration {
	w, ok := t.timers[name]
	if !ok {
		return 0
	}
	return w.elapsed(t.now())
}

// Set writes a status directly. Setting Current replaces the current stage
// in sequential mode and joins the current set in parallel mode; any other
// status removes the stage from the current set.
func (t *Tracker) Set(name string, status Status) {
	if _, ok := t.statuses[name]; !ok {
		return
	}
	t.statuses[name] = status

	if status != Current {
		t.current = slices.DeleteFunc(t.current, func(n string) bool { return n == name })
		return
	}
	if !t.allowParallel {
		t.current = []string{name}
		return
	}
	if !slices.Contains(t.current, name) {
		t.current = append(t.current, name)
	}
}

// Refresh moves a sequential run to target, recomputing every stage from
// the target and opts in a single pass. Skipped and failed stages are
// never overwritten. Calling it twice with the same arguments is the same as
// calling it once.
func (t *Tracker) Refresh(target string, opts RefreshOptions) {
	targetIdx := t.IndexOf(target)
	if targetIdx < 0 {
		return
	}
	bypass := opts.BypassStatus
	if bypass == Pending {
		bypass = Completed
	}
	now := t.now()

	for i, name := range t.names {
		status := t.statuses[name]
		if status.isSticky() {
			continue
		}

		switch {
		case i == targetIdx && opts.FinalStatus != nil:
			t.Set(name, *opts.FinalStatus)
			t.timers[name].stop(now)
		case i == targetIdx:
			t.Set(name, Current)
			if w := t.timers[name]; !w.started {
				w.start(now)
			}
		case i < targetIdx && status == Pending:
			t.Set(name, bypass)
		case i < targetIdx:
			t.Set(name, Completed)
			t.timers[name].stop(now)
		default:
			t.Set(name, Pending)
		}
	}
}

// Update changes one stage of a parallel run. Completed, failed and aborted
// stop the stage timer, paused holds it and current starts or resumes it.
func (t *Tracker) Update(name string, status Status) {
	w, ok := t.timers[name]
	if !ok {
		return
	}
	now := t.now()
	switch {
	case status.stopsTimer(), status == Paused:
		w.stop(now)
	case status == Current:
		w.start(now)
	}
	t.Set(name, status)
}

// Stop ends the run. Sequential runs refresh to fallback with finalStatus;
// parallel runs move every current stage to finalStatus.
func (t *Tracker) Stop(fallback string, finalStatus Status) {
	if !t.allowParallel {
		t.Refresh(fallback, Final(finalStatus))
		return
	}
	now := t.now()
	for _, name := range t.Current() {
		t.timers[name].stop(now)
		t.Set(name, finalStatus)
	}
}

// Snapshot copies the tracker state for rendering.
func (t *Tracker) Snapshot() Snapshot {
	now := t.now()
	entries := make([]Entry, len(t.names))
	for i, name := range t.names {
		w := t.timers[name]
		entries[i] = Entry{
			Name:    name,
			Index:   i,
			Status:  t.statuses[name],
			Elapsed: w.elapsed(now),
			Running: w.running,
			Started: w.started,
		}
	}
	return Snapshot{Entries: entries, Current: t.Current(), At: now}
}
