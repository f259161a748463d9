package output

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/compaction"
	"github.com/ariel-frischer/multistage/internal/progress"
	"github.com/ariel-frischer/multistage/internal/stage"
)

// base holds what the sequential and parallel controllers share. Every
// exported method of a controller takes mu for its whole duration.
type base struct {
	mu        sync.Mutex
	opts      Options
	tracker   *stage.Tracker
	data      block.Data
	renderer  progress.Renderer
	design    progress.Design
	timerUnit progress.TimerUnit
	started   time.Time
	stopped   bool
	now       func() time.Time
	size      func() (int, int)
	log       *zap.Logger
}

func newBase(opts Options, allowParallel bool) (*base, error) {
	unit, err := opts.validate()
	if err != nil {
		return nil, err
	}

	b := &base{
		opts:      opts,
		data:      block.Data{}.Merge(opts.Data),
		timerUnit: unit,
		now:       opts.Clock,
		size:      opts.TerminalSize,
		log:       opts.Logger,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.size == nil {
		b.size = progress.TerminalSize
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	b.log = b.log.With(zap.String("run_id", uuid.NewString()))

	if opts.Design != nil {
		b.design = *opts.Design
	} else {
		b.design = progress.DefaultDesign(progress.DetectTerminalCapabilities())
	}

	b.tracker = stage.NewTracker(opts.Stages, allowParallel, stage.WithClock(b.now))
	b.started = b.now()
	b.renderer = b.newRenderer()

	b.log.Debug("controller started",
		zap.Strings("stages", opts.Stages),
		zap.Bool("parallel", allowParallel),
		zap.Bool("ci", opts.Environment.CIMode),
		zap.Bool("json", opts.JSONEnabled),
	)
	b.render()
	return b, nil
}

func (b *base) newRenderer() progress.Renderer {
	if b.opts.JSONEnabled {
		return nil
	}
	w := b.opts.Writer
	if w == nil {
		w = os.Stdout
	}
	if b.opts.Environment.CIMode {
		return progress.NewCIOutput(w, progress.CIOptions{
			Heartbeat: b.opts.Environment.HeartbeatInterval,
			Throttle:  b.opts.Environment.ThrottleInterval,
			Now:       b.now,
		})
	}
	if b.opts.Renderer != nil {
		return b.opts.Renderer
	}
	return progress.NewProgressDisplay(progress.DisplayOptions{Output: w})
}

// frame builds the current picture. Final frames always use level 0.
func (b *base) frame(final, failed bool) progress.Frame {
	snap := b.tracker.Snapshot()
	in := compaction.Inputs{
		Title:          b.opts.Title,
		HasElapsedTime: !b.opts.HideElapsedTime,
		HasStageTime:   !b.opts.HideStageTime,
		PreStages:      block.Format(b.opts.PreStagesBlock, b.data),
		PostStages:     block.Format(b.opts.PostStagesBlock, b.data),
		StageSpecific:  block.Format(b.opts.StageSpecificBlock, b.data),
		Stages:         snap,
		IconWidth:      b.design.IconWidth,
	}

	columns, rows := b.size()
	level := 0
	if !final {
		level = compaction.Determine(in, rows-1, columns).Level
	}

	return progress.Frame{
		Inputs:    in,
		Level:     level,
		Final:     final,
		Failed:    failed,
		Elapsed:   snap.At.Sub(b.started),
		TimerUnit: b.timerUnit,
		Design:    b.design,
		At:        snap.At,
		Rows:      rows,
		Columns:   columns,
	}
}

func (b *base) render() {
	if b.renderer == nil {
		return
	}
	f := b.frame(false, false)
	b.log.Debug("render", zap.Int("level", f.Level), zap.Int("rows", f.Rows), zap.Int("columns", f.Columns))
	b.renderer.Render(f)
}

func (b *base) merge(data block.Data) {
	if len(data) > 0 {
		b.data = b.data.Merge(data)
	}
}

func (b *base) logTransition(name string, status stage.Status) {
	b.log.Debug("stage transition",
		zap.String("stage", name),
		zap.Stringer("status", status),
		zap.Strings("current", b.tracker.Current()),
	)
}

// finish renders the summary once and releases the renderer. Callers hold
// mu and have already moved the tracker to its final state.
func (b *base) finish(finalStatus stage.Status) {
	b.stopped = true
	if b.renderer != nil {
		f := b.frame(true, finalStatus == stage.Failed)
		b.renderer.Render(f)
		if err := b.renderer.Close(); err != nil {
			b.log.Warn("renderer close failed", zap.Error(err))
		}
	}
	b.log.Debug("controller stopped",
		zap.Stringer("status", finalStatus),
		zap.Duration("elapsed", b.now().Sub(b.started)),
	)
}

// Status returns the status of a stage.
func (b *base) Status(name string) (stage.Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tracker.Get(name)
}

// Current returns the current stage names.
func (b *base) Current() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tracker.Current()
}

// Snapshot returns a copy of every stage's status and timer.
func (b *base) Snapshot() stage.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tracker.Snapshot()
}

// Data returns a copy of the data bag.
func (b *base) Data() block.Data {
	b.mu.Lock()
	defer b.mu.Unlock()
	return block.Data{}.Merge(b.data)
}

// Stopped reports whether Stop has been called.
func (b *base) Stopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopped
}

// UpdateData merges data into the bag and repaints.
func (b *base) UpdateData(data block.Data) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.merge(data)
	b.render()
}
