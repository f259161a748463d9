package stage

import "time"

// Entry is one stage in a Snapshot.
type Entry struct {
	Name    string
	Index   int
	Status  Status
	Elapsed time.Duration
	// Running is true while the stage timer is accumulating.
	Running bool
	// Started is true once the stage timer has been started at least once.
	Started bool
}

// ElapsedAt returns the entry's elapsed time as of now, extending a running
// timer past the moment the snapshot was taken.
func (e Entry) ElapsedAt(taken, now time.Time) time.Duration {
	if e.Running && now.After(taken) {
		return e.Elapsed + now.Sub(taken)
	}
	return e.Elapsed
}

// Snapshot is an immutable copy of a Tracker, safe to share between goroutines.
type Snapshot struct {
	Entries []Entry
	Current []string
	At      time.Time
}

// Len returns the number of stages.
func (s Snapshot) Len() int {
	return len(s.Entries)
}

// Get returns the entry for name.
func (s Snapshot) Get(name string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// IsCurrent reports whether name is in the current set.
func (s Snapshot) IsCurrent(name string) bool {
	for _, c := range s.Current {
		if c == name {
			return true
		}
	}
	return false
}
