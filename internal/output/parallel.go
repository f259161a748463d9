package output

import (
	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/stage"
)

// Parallel lets any number of stages run at once. Each stage is moved
// independently and never leaves the completed state.
type Parallel struct {
	*base
}

// NewParallel validates opts and paints the initial frame.
func NewParallel(opts Options) (*Parallel, error) {
	b, err := newBase(opts, true)
	if err != nil {
		return nil, err
	}
	return &Parallel{base: b}, nil
}

// StartStage makes name current and starts its timer.
func (p *Parallel) StartStage(name string, data block.Data) {
	p.UpdateStage(name, stage.Current, data)
}

// PauseStage pauses name and holds its timer.
func (p *Parallel) PauseStage(name string, data block.Data) {
	p.UpdateStage(name, stage.Paused, data)
}

// ResumeStage makes a paused stage current again.
func (p *Parallel) ResumeStage(name string, data block.Data) {
	p.UpdateStage(name, stage.Current, data)
}

// StopStage completes name.
func (p *Parallel) StopStage(name string, data block.Data) {
	p.UpdateStage(name, stage.Completed, data)
}

// UpdateStage sets any status on name.
func (p *Parallel) UpdateStage(name string, status stage.Status, data block.Data) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	current, ok := p.tracker.Get(name)
	if !ok || current == stage.Completed {
		return
	}

	p.merge(data)
	p.tracker.Update(name, status)
	p.logTransition(name, status)
	p.render()
}

// Stop completes every running stage and paints the summary.
func (p *Parallel) Stop() {
	p.StopWithStatus(stage.Completed)
}

// StopWithStatus moves every running stage to status. Only the first stop
// call has any effect.
func (p *Parallel) StopWithStatus(status stage.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.tracker.Stop("", status)
	p.finish(status)
}
