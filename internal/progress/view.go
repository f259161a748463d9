package progress

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/compaction"
	"github.com/ariel-frischer/multistage/internal/stage"
)

// View renders a frame as the text of the interactive display. tick selects
// the spinner frame and now extends running timers past f.At.
//
// Each section renders independently; a section that panics is replaced by
// a plain fallback so the rest of the display survives.
func View(f Frame, tick int, now time.Time) string {
	v := viewer{f: f, tick: tick, now: now, colored: f.Design.Color, level: f.Level}
	if f.Final {
		v.level = 0
	}
	pad := compaction.ShowPadding(v.level)
	blockStyle := lipgloss.NewStyle().MarginLeft(1)

	var lines []string
	gap := func() {
		if pad {
			lines = append(lines, "")
		}
	}

	gap()
	if f.Title != "" && compaction.ShowTitle(v.level) {
		lines = append(lines, section(f.Title, v.title))
	}

	if pre := compaction.Filter(f.PreStages, v.level, compaction.PreStages); len(pre) > 0 {
		gap()
		lines = append(lines, blockStyle.Render(section("", func() string { return v.infos(pre) })))
	}

	gap()
	lines = append(lines, blockStyle.Render(section(strings.Join(f.Stages.Current, ", "), v.stages)))

	if post := compaction.Filter(f.PostStages, v.level, compaction.PostStages); len(post) > 0 {
		gap()
		lines = append(lines, blockStyle.Render(section("", func() string { return v.infos(post) })))
	}

	if f.HasElapsedTime && compaction.ShowElapsed(v.level) {
		elapsed := section("", func() string {
			return compaction.ElapsedLabel + ReadableTime(f.ElapsedAt(now), f.TimerUnit)
		})
		if pad {
			elapsed = " " + elapsed
		}
		lines = append(lines, elapsed)
	}
	gap()

	return strings.Join(lines, "\n")
}

// section runs render and returns fallback if it panics.
func section(fallback string, render func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fallback
		}
	}()
	return render()
}

type viewer struct {
	f       Frame
	tick    int
	now     time.Time
	colored bool
	level   int
}

func (v viewer) title() string {
	t := v.f.Design.Title
	columns := v.f.Columns
	if columns <= 0 {
		columns = fallbackColumns
	}
	width := t.Width
	if width <= 0 {
		width = columns - t.TextPadding
	}
	width = min(width, columns)

	text := strings.Repeat(" ", t.TextPadding) + v.f.Title + strings.Repeat(" ", t.TextPadding)
	side := 0
	if cw := ansi.StringWidth(t.DividerChar); cw > 0 {
		side = max(0, (width-ansi.StringWidth(text))/2/cw)
	}
	divider := colorStyle(t.DividerColor, v.colored).Render(strings.Repeat(t.DividerChar, side))
	outer := strings.Repeat(" ", t.Padding)

	return outer + divider + colorStyle(t.TextColor, v.colored).Render(text) + divider + outer
}

func (v viewer) stages() string {
	var rows []string
	all := compaction.ShowAllStages(v.level)
	for _, e := range v.f.Stages.Entries {
		if all {
			rows = append(rows, v.fullRow(e)...)
			continue
		}
		if v.f.Stages.IsCurrent(e.Name) {
			rows = append(rows, v.compactRow(e)...)
		}
	}
	return strings.Join(rows, "\n")
}

// fullRow draws a stage at level 0 followed by its stage-specific info.
func (v viewer) fullRow(e stage.Entry) []string {
	icons := v.f.Design.Icons
	label := capitalize(e.Name)

	var row string
	switch e.Status {
	case stage.Current:
		row = v.spinnerOrFailed(v.f.Design.Spinners.Stage) + " " + label
	case stage.Skipped:
		row = renderIcon(icons.Skipped, v.colored) + " " + colorStyle("dim", v.colored).Render(label+" - Skipped")
	default:
		row = renderIcon(icons.For(e.Status), v.colored) + " " + label
	}
	if v.showsStageTime(e) {
		row += " " + v.stageTime(e)
	}

	rows := []string{row}
	if e.Status == stage.Pending || e.Status == stage.Skipped {
		return rows
	}
	for _, it := range v.stageInfos(e.Name) {
		rows = append(rows, renderIcon(icons.Info, v.colored)+v.item(it))
	}
	return rows
}

// compactRow draws a current stage once the list has collapsed.
func (v viewer) compactRow(e stage.Entry) []string {
	label := formatStageCounter(e.Index+1, v.f.Stages.Len()) + " " + capitalize(e.Name)
	row := v.spinnerOrFailed(v.f.Design.Spinners.Stage) + " " + label
	if v.showsStageTime(e) {
		row += " " + v.stageTime(e)
	}

	infos := v.stageInfos(e.Name)
	if compaction.InlineStageInfo(v.level) {
		for _, it := range infos {
			row += " " + v.item(it)
		}
		return []string{row}
	}

	rows := []string{row}
	for _, it := range infos {
		rows = append(rows, renderIcon(v.f.Design.Icons.Info, v.colored)+v.item(it))
	}
	return rows
}

func (v viewer) stageInfos(name string) []block.Formatted {
	var out []block.Formatted
	for _, it := range compaction.Filter(block.ForStage(v.f.StageSpecific, name), v.level, compaction.StageSpecific) {
		if it.Kind == block.Message && it.Value == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (v viewer) showsStageTime(e stage.Entry) bool {
	return v.f.HasStageTime && e.Status != stage.Pending && e.Status != stage.Skipped
}

func (v viewer) stageTime(e stage.Entry) string {
	d := e.ElapsedAt(v.f.At, v.now)
	if v.f.Final {
		d = e.Elapsed
	}
	return colorStyle("dim", v.colored).Render(ReadableTime(d, v.f.TimerUnit))
}

func (v viewer) spinnerOrFailed(set int) string {
	if v.f.Failed {
		return renderIcon(v.f.Design.Icons.Failed, v.colored)
	}
	return colorStyle(v.f.Design.Icons.Current.Color, v.colored).Render(spinnerFrame(set, v.tick))
}

func (v viewer) infos(items []block.Formatted) string {
	var rows []string
	for _, it := range items {
		if it.Kind == block.Message && it.Value == "" {
			continue
		}
		rows = append(rows, v.item(it))
	}
	return strings.Join(rows, "\n")
}

func (v viewer) item(it block.Formatted) string {
	value := colorStyle(it.Color, v.colored).Bold(it.Bold && v.colored).Render(it.Value)
	switch {
	case it.Kind == block.Message:
		return value
	case it.Pending():
		return it.Label + ": " + v.spinnerOrFailed(v.f.Design.Spinners.Info)
	default:
		return it.Label + ": " + value
	}
}
