// Package output_test tests the sequential and parallel progress controllers.
// Related: internal/output/parallel.go
// Tags: output, parallel, pause, resume, concurrency
package output_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/output"
	"github.com/ariel-frischer/multistage/internal/stage"
)

func TestParallel_StartAndStop(t *testing.T) {
	t.Parallel()

	p, err := output.NewParallel(testOptions(&recorder{}, newFakeClock(), "one", "two", "three"))
	require.NoError(t, err)
	defer p.Stop()

	p.StartStage("one", nil)
	p.StartStage("two", nil)
	assert.Equal(t, []string{"one", "two"}, p.Current())

	p.StopStage("one", nil)
	assert.Equal(t, []string{"two"}, p.Current())
	st, _ := p.Status("one")
	assert.Equal(t, stage.Completed, st)
}

func TestParallel_Guards(t *testing.T) {
	t.Parallel()

	names := []string{"one", "two", "three"}

	tests := map[string]struct {
		run  func(p *output.Parallel)
		want map[string]stage.Status
	}{
		"completed stage cannot restart": {
			run: func(p *output.Parallel) {
				p.StartStage("one", nil)
				p.StopStage("one", nil)
				p.StartStage("one", nil)
				p.UpdateStage("one", stage.Failed, nil)
			},
			want: map[string]stage.Status{"one": stage.Completed, "two": stage.Pending, "three": stage.Pending},
		},
		"unknown stage is ignored": {
			run: func(p *output.Parallel) {
				p.StartStage("four", nil)
			},
			want: map[string]stage.Status{"one": stage.Pending, "two": stage.Pending, "three": stage.Pending},
		},
		"update stage sets any status": {
			run: func(p *output.Parallel) {
				p.UpdateStage("one", stage.Warning, nil)
				p.UpdateStage("two", stage.Async, nil)
				p.UpdateStage("three", stage.Aborted, nil)
			},
			want: map[string]stage.Status{"one": stage.Warning, "two": stage.Async, "three": stage.Aborted},
		},
		"stop finishes current stages and leaves pending ones": {
			run: func(p *output.Parallel) {
				p.StartStage("one", nil)
				p.StartStage("two", nil)
				p.PauseStage("two", nil)
				p.Stop()
			},
			want: map[string]stage.Status{"one": stage.Completed, "two": stage.Paused, "three": stage.Pending},
		},
		"calls after stop are ignored": {
			run: func(p *output.Parallel) {
				p.Stop()
				p.StartStage("one", nil)
			},
			want: map[string]stage.Status{"one": stage.Pending, "two": stage.Pending, "three": stage.Pending},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p, err := output.NewParallel(testOptions(&recorder{}, newFakeClock(), names...))
			require.NoError(t, err)
			defer p.Stop()

			tt.run(p)

			if diff := cmp.Diff(tt.want, statuses(t, p, names...)); diff != "" {
				t.Errorf("statuses mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParallel_PauseAccumulates(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	rec := &recorder{}
	p, err := output.NewParallel(testOptions(rec, clock, "one"))
	require.NoError(t, err)

	p.StartStage("one", nil)
	clock.Advance(2 * time.Second)
	p.PauseStage("one", nil)
	clock.Advance(10 * time.Second)
	p.ResumeStage("one", nil)
	clock.Advance(time.Second)
	p.StopStage("one", nil)
	p.Stop()

	e, ok := rec.Last().Stages.Get("one")
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, e.Elapsed)
	assert.False(t, e.Running)
}

func TestParallel_StopWithStatusFailed(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	p, err := output.NewParallel(testOptions(rec, newFakeClock(), "one", "two"))
	require.NoError(t, err)

	p.StartStage("one", nil)
	p.StartStage("two", nil)
	p.StopStage("two", nil)
	p.StopWithStatus(stage.Failed)

	f := rec.Last()
	assert.True(t, f.Final)
	assert.True(t, f.Failed)
	assert.Equal(t, map[string]stage.Status{"one": stage.Failed, "two": stage.Completed}, statuses(t, p, "one", "two"))
	assert.Equal(t, 1, rec.Closed())
}

func TestParallel_ConcurrentWorkers(t *testing.T) {
	t.Parallel()

	names := make([]string, 8)
	for i := range names {
		names[i] = fmt.Sprintf("worker-%d", i)
	}

	rec := &recorder{}
	p, err := output.NewParallel(testOptions(rec, newFakeClock(), names...))
	require.NoError(t, err)

	g, _ := errgroup.WithContext(context.Background())
	for i, name := range names {
		g.Go(func() error {
			p.StartStage(name, block.Data{name: i})
			p.UpdateData(block.Data{"last": name})
			p.StopStage(name, nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	p.Stop()

	for _, name := range names {
		st, _ := p.Status(name)
		assert.Equal(t, stage.Completed, st, name)
		v, ok := p.Data().Int(name)
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, 0)
	}
	assert.Empty(t, p.Current())
	assert.True(t, rec.Last().Final)
}
