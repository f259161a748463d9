package compaction

import "github.com/ariel-frischer/multistage/internal/block"

// Block identifies one of the three info blocks.
type Block int

const (
	// PreStages is the block above the stage list
	PreStages Block = iota
	// PostStages is the block below the stage list
	PostStages
	// StageSpecific is the block attached to individual stages
	StageSpecific
)

// collapseLevel is where unflagged items start to disappear.
const collapseLevel = 4

// dropLevel is the level at which a whole block is removed.
func dropLevel(b Block) int {
	switch b {
	case PreStages:
		return 4
	case PostStages:
		return 5
	default:
		return 7
	}
}

// KeepItem reports whether an info item is rendered at level. Items flagged
// NeverCollapse outlive the general collapse but still go with their block.
func KeepItem(item block.Formatted, level int, b Block) bool {
	if level < collapseLevel {
		return true
	}
	return item.NeverCollapse && level < dropLevel(b)
}

// Filter returns the items of b kept at level.
func Filter(items []block.Formatted, level int, b Block) []block.Formatted {
	var out []block.Formatted
	for _, it := range items {
		if KeepItem(it, level, b) {
			out = append(out, it)
		}
	}
	return out
}

// ShowAllStages reports whether every stage row is drawn.
func ShowAllStages(level int) bool { return level == 0 }

// ShowElapsed reports whether the elapsed time line is drawn.
func ShowElapsed(level int) bool { return level < 2 }

// ShowTitle reports whether the title divider is drawn.
func ShowTitle(level int) bool { return level < 3 }

// InlineStageInfo reports whether stage-specific info shares the stage line.
func InlineStageInfo(level int) bool { return level >= 6 }

// ShowPadding reports whether sections are separated by blank lines.
func ShowPadding(level int) bool { return level < MaxLevel }
