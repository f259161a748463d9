package output

import (
	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/stage"
)

// Sequential drives stages one at a time in declaration order. Moves are
// forward only.
type Sequential struct {
	*base
}

// NewSequential validates opts and paints the initial frame.
func NewSequential(opts Options) (*Sequential, error) {
	b, err := newBase(opts, false)
	if err != nil {
		return nil, err
	}
	return &Sequential{base: b}, nil
}

// Goto makes name the current stage, completing every earlier stage.
func (s *Sequential) Goto(name string, data block.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveTo(name, data, stage.Completed)
}

// SkipTo makes name the current stage, marking untouched earlier stages skipped.
func (s *Sequential) SkipTo(name string, data block.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveTo(name, data, stage.Skipped)
}

// Next advances to the stage after the current one. With no current stage
// it starts the first stage; at the last stage it does nothing.
func (s *Sequential) Next(data block.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.tracker.Len() == 0 {
		return
	}

	names := s.tracker.Names()
	next := 0
	if cur, ok := s.tracker.CurrentStage(); ok {
		next = s.tracker.IndexOf(cur) + 1
	}
	if next >= len(names) {
		return
	}
	s.moveTo(names[next], data, stage.Completed)
}

func (s *Sequential) moveTo(name string, data block.Data, bypass stage.Status) {
	if s.stopped {
		return
	}
	idx := s.tracker.IndexOf(name)
	if idx < 0 {
		return
	}
	if cur, ok := s.tracker.CurrentStage(); ok && idx < s.tracker.IndexOf(cur) {
		return
	}

	s.merge(data)
	s.tracker.Refresh(name, stage.Bypass(bypass))
	s.logTransition(name, stage.Current)
	s.render()
}

// Stop finishes the current stage as completed and paints the summary.
func (s *Sequential) Stop() {
	s.StopWithStatus(stage.Completed)
}

// Error finishes the current stage as failed.
func (s *Sequential) Error() {
	s.StopWithStatus(stage.Failed)
}

// StopWithStatus finishes the current stage with status, or the first stage
// when none has started. Only the first stop call has any effect.
func (s *Sequential) StopWithStatus(status stage.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	target, ok := s.tracker.CurrentStage()
	if !ok && s.tracker.Len() > 0 {
		target, ok = s.tracker.Names()[0], true
	}
	if ok {
		s.tracker.Stop(target, status)
		s.logTransition(target, status)
	}
	s.finish(status)
}
