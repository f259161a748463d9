package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
)

// formatStageCounter returns the [N/Total] stage counter string
func formatStageCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// capitalize returns the string with the first letter capitalized
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// namedColors maps the color names accepted in themes to ANSI indices.
var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

// colorStyle builds a style for a theme color. "dim" maps to faint text.
func colorStyle(color string, enabled bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	if !enabled || color == "" {
		return s
	}
	if color == "dim" {
		return s.Faint(true)
	}
	if idx, ok := namedColors[strings.ToLower(color)]; ok {
		color = idx
	}
	return s.Foreground(lipgloss.Color(color))
}

// renderIcon draws an icon with its padding.
func renderIcon(icon Icon, colored bool) string {
	return strings.Repeat(" ", icon.PaddingLeft) +
		colorStyle(icon.Color, colored).Render(icon.Figure) +
		strings.Repeat(" ", icon.PaddingRight)
}

// spinnerFrame returns frame tick of a spinner.CharSets entry.
func spinnerFrame(set, tick int) string {
	frames, ok := spinner.CharSets[set]
	if !ok || len(frames) == 0 {
		frames = spinner.CharSets[9]
	}
	if tick < 0 {
		tick = -tick
	}
	return frames[tick%len(frames)]
}

// ReadableTime formats a duration the way the display shows it.
//
//	< 1s    "250ms" (ms) or "< 1s" (s)
//	< 1m    "12.34s" (ms) or "12s" (s)
//	< 1h    "3m 5.20s" (ms) or "3m 5s" (s)
//	>= 1h   "2h 15m"
func ReadableTime(d time.Duration, unit TimerUnit) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		if unit == Seconds {
			return "< 1s"
		}
		return fmt.Sprintf("%dms", max(ms, 0))
	}

	decimals := 0
	if unit != Seconds {
		decimals = 2
	}
	if ms < 60_000 {
		return seconds(ms, decimals) + "s"
	}
	if ms < 3_600_000 {
		return fmt.Sprintf("%dm %ss", ms/60_000, seconds(ms%60_000, decimals))
	}
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// seconds renders ms as seconds, truncated (not rounded) to 0 or 2 decimals.
func seconds(ms int64, decimals int) string {
	if decimals == 0 {
		return fmt.Sprintf("%d", ms/1000)
	}
	return fmt.Sprintf("%d.%02d", ms/1000, (ms%1000)/10)
}
