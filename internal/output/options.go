// Package output exposes the multi-stage progress controllers. A controller
// owns the stage tracker and the data bag, and repaints the display after
// every change. Mutations never fail: unknown stages, backward moves and
// calls after Stop are ignored.
package output

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/config"
	apperrors "github.com/ariel-frischer/multistage/internal/errors"
	"github.com/ariel-frischer/multistage/internal/progress"
)

// Options configures a controller.
type Options struct {
	// Stages are the unique stage names in execution order.
	Stages []string
	Title  string

	PreStagesBlock     []block.Descriptor
	PostStagesBlock    []block.Descriptor
	StageSpecificBlock []block.Descriptor

	// HideElapsedTime removes the total elapsed time line.
	HideElapsedTime bool
	// HideStageTime removes per-stage timers.
	HideStageTime bool
	// TimerUnit is "ms" (default) or "s".
	TimerUnit string
	// Data is the initial data bag.
	Data block.Data
	// JSONEnabled suppresses all rendering.
	JSONEnabled bool
	// Design overrides the default theme.
	Design *progress.Design

	// Environment selects line mode and its intervals.
	Environment config.Environment
	// Writer receives line-mode output and the interactive display.
	// Defaults to os.Stdout.
	Writer io.Writer
	// Renderer replaces the interactive display.
	Renderer progress.Renderer
	// TerminalSize reports columns and rows. Defaults to progress.TerminalSize.
	TerminalSize func() (columns, rows int)
	// Logger receives debug events. Defaults to a no-op logger.
	Logger *zap.Logger
	// Clock replaces time.Now.
	Clock func() time.Time
}

// validate rejects duplicate stage names and unknown timer units.
func (o Options) validate() (progress.TimerUnit, error) {
	seen := make(map[string]bool, len(o.Stages))
	for _, name := range o.Stages {
		if seen[name] {
			return "", apperrors.DuplicateStage(name)
		}
		seen[name] = true
	}
	return progress.ParseTimerUnit(o.TimerUnit)
}
