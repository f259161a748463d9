// Package compaction decides how much of the progress display to hide so it
// fits the terminal.
//
// Levels are applied in order and each one removes one more element:
//
//	0 - show everything
//	1 - show only the current stage(s)
//	2 - hide the elapsed time line
//	3 - hide the title
//	4 - hide the pre-stages block
//	5 - hide the post-stages block
//	6 - fold stage-specific info onto the current stage line
//	7 - hide stage-specific info
//	8 - remove padding between sections
package compaction

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/stage"
)

// MaxLevel is the most aggressive compaction level.
const MaxLevel = 8

const (
	// basePadding is the margin around the whole display plus the stage list.
	basePadding = 3
	// safetyLines keeps the last line free for the cursor.
	safetyLines = 1
	// stageTimeWidth is reserved for an inline stage time such as "23h 59m".
	stageTimeWidth = 8
)

// ElapsedLabel prefixes the total elapsed time line.
const ElapsedLabel = "Elapsed Time: "

// Inputs is everything the level depends on.
type Inputs struct {
	Title          string
	HasElapsedTime bool
	HasStageTime   bool
	PreStages      []block.Formatted
	PostStages     []block.Formatted
	StageSpecific  []block.Formatted
	Stages         stage.Snapshot
	// IconWidth returns the rendered width of a status icon including
	// padding. Nil means every icon is one column wide.
	IconWidth func(stage.Status) int
}

// Result is the chosen level and the estimated height of the uncompacted display.
type Result struct {
	Level       int
	TotalHeight int
}

// Determine walks the levels from 0 and stops at the first one whose
// remaining height fits in rows. Columns drive line wrapping.
func Determine(in Inputs, rows, columns int) Result {
	if columns < 1 {
		columns = 1
	}

	stagesHeight := StagesHeight(in, columns)
	preHeight := BlockHeight(in.PreStages, columns)
	postHeight := BlockHeight(in.PostStages, columns)
	specificHeight := BlockHeight(in.StageSpecific, columns)
	elapsedHeight := ElapsedHeight(in, columns)

	total := stagesHeight + preHeight + postHeight + specificHeight +
		boolLines(in.Title != "") + elapsedHeight +
		padding(in) + safetyLines

	visible := max(1, len(in.Stages.Current))
	contributions := [MaxLevel]int{
		stagesHeight - min(stagesHeight, visible),
		elapsedHeight,
		boolLines(in.Title != ""),
		preHeight,
		postHeight,
		specificHeight,
		specificHeight,
		basePadding,
	}

	level := 0
	remaining := total
	for level < MaxLevel && remaining >= rows {
		remaining -= contributions[level]
		level++
	}

	if level == 6 && compactLineWidth(in) > columns {
		level = 7
	}

	return Result{Level: level, TotalHeight: total}
}

func padding(in Inputs) int {
	p := basePadding
	if in.Title != "" {
		p++
	}
	if len(in.PreStages) > 0 {
		p++
	}
	if len(in.PostStages) > 0 {
		p++
	}
	return p
}

func boolLines(b bool) int {
	if b {
		return 1
	}
	return 0
}

// wrapped returns how many rows text of the given width occupies.
func wrapped(width, columns int) int {
	return (width + columns - 1) / columns
}

// ItemHeight estimates the rows a single info item occupies.
func ItemHeight(item block.Formatted, columns int) int {
	if item.Kind == block.Message {
		if item.Value == "" {
			return 0
		}
		return textHeight(item.Value, columns)
	}
	if item.Value == "" {
		return 1
	}
	return textHeight(item.Text(), columns)
}

func textHeight(text string, columns int) int {
	if w := ansi.StringWidth(text); w > columns {
		return wrapped(w, columns)
	}
	return strings.Count(text, "\n") + 1
}

// BlockHeight sums ItemHeight over a block.
func BlockHeight(items []block.Formatted, columns int) int {
	h := 0
	for _, it := range items {
		h += ItemHeight(it, columns)
	}
	return h
}

// ElapsedHeight estimates the rows of the elapsed time line, which wraps
// like any other row in a narrow terminal.
func ElapsedHeight(in Inputs, columns int) int {
	if !in.HasElapsedTime {
		return 0
	}
	if columns < 1 {
		columns = 1
	}
	return wrapped(ansi.StringWidth(ElapsedLabel)+stageTimeWidth, columns)
}

// StagesHeight estimates the rows of the full stage list.
func StagesHeight(in Inputs, columns int) int {
	h := 0
	for _, e := range in.Stages.Entries {
		w := 1 + iconWidth(in, e.Status) + 1 + ansi.StringWidth(e.Name)
		if in.HasStageTime {
			w += stageTimeWidth
		}
		h += wrapped(w, columns)
	}
	return h
}

func iconWidth(in Inputs, s stage.Status) int {
	if in.IconWidth == nil {
		return 1
	}
	return in.IconWidth(s)
}

// CompactLabel is the label of a collapsed stage row, e.g. "[2/5] Build".
func CompactLabel(index, total int, name string) string {
	return fmt.Sprintf("[%d/%d] %s", index+1, total, name)
}

// compactLineWidth is the width of the first current stage drawn on one
// line with its stage-specific info folded in.
func compactLineWidth(in Inputs) int {
	if len(in.Stages.Current) == 0 {
		return 0
	}
	name := in.Stages.Current[0]
	e, ok := in.Stages.Get(name)
	if !ok {
		return 0
	}
	w := 1 + 1 + 1 + ansi.StringWidth(CompactLabel(e.Index, in.Stages.Len(), name))
	if in.HasStageTime {
		w += stageTimeWidth
	}
	for _, it := range block.ForStage(in.StageSpecific, name) {
		w += 1 + ansi.StringWidth(it.Text())
	}
	return w
}
