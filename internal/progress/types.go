// Package progress renders multi-stage progress frames. It owns the visual
// theme, terminal detection, the interactive full-screen display and the
// line-oriented output used in CI and other non-interactive environments.
package progress

import (
	"time"

	"github.com/ariel-frischer/multistage/internal/compaction"
	apperrors "github.com/ariel-frischer/multistage/internal/errors"
)

// TimerUnit is the granularity of displayed durations
type TimerUnit string

const (
	// Milliseconds shows sub-second times and two decimals
	Milliseconds TimerUnit = "ms"
	// Seconds rounds everything down to whole seconds
	Seconds TimerUnit = "s"
)

// ParseTimerUnit validates a timer unit. An empty string selects Milliseconds.
func ParseTimerUnit(s string) (TimerUnit, error) {
	switch TimerUnit(s) {
	case "", Milliseconds:
		return Milliseconds, nil
	case Seconds:
		return Seconds, nil
	default:
		return "", apperrors.InvalidTimerUnit(s)
	}
}

// Frame is one complete picture of a run, handed to a Renderer after every
// change. Frames are values; renderers may keep them across goroutines.
type Frame struct {
	compaction.Inputs

	// Level is the compaction level chosen for Rows and Columns.
	Level int
	// Final marks the summary frame drawn once when the run stops.
	Final bool
	// Failed replaces spinners with the failed icon.
	Failed bool
	// Elapsed is the run time as of At.
	Elapsed   time.Duration
	TimerUnit TimerUnit
	Design    Design
	At        time.Time
	Rows      int
	Columns   int
}

// ElapsedAt returns the run time as of now. Final frames are frozen.
func (f Frame) ElapsedAt(now time.Time) time.Duration {
	if f.Final || !now.After(f.At) {
		return f.Elapsed
	}
	return f.Elapsed + now.Sub(f.At)
}

// Relevel recomputes Level for new terminal dimensions. Final frames keep
// level 0.
func (f Frame) Relevel(rows, columns int) Frame {
	f.Rows = rows
	f.Columns = columns
	if f.Final {
		f.Level = 0
		return f
	}
	f.Level = compaction.Determine(f.Inputs, rows-1, columns).Level
	return f
}

// Renderer paints frames. Render must not block on I/O for long; Close
// flushes, stops any background timers and waits for them.
type Renderer interface {
	Render(Frame)
	Close() error
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether stdout is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
	// Height is the terminal height in rows (0 if unknown/pipe)
	Height int
}
