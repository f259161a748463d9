package output_test

import (
	"sync"
	"time"

	"github.com/ariel-frischer/multistage/internal/output"
	"github.com/ariel-frischer/multistage/internal/progress"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recorder is a progress.Renderer that keeps every frame.
type recorder struct {
	mu     sync.Mutex
	frames []progress.Frame
	closed int
}

func (r *recorder) Render(f progress.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recorder) Last() progress.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

func (r *recorder) Closed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func testOptions(rec *recorder, clock *fakeClock, stages ...string) output.Options {
	return output.Options{
		Stages:       stages,
		Title:        "Deploying",
		Renderer:     rec,
		Clock:        clock.Now,
		TerminalSize: func() (int, int) { return 120, 60 },
	}
}
