package progress

import (
	"fmt"
	"os"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/x/ansi"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/ariel-frischer/multistage/internal/errors"
	"github.com/ariel-frischer/multistage/internal/stage"
)

// Icon is a glyph drawn before a stage or info line.
type Icon struct {
	Figure string `yaml:"figure" validate:"required"`
	// Color is a color name, an ANSI index, a hex value or "dim".
	Color        string `yaml:"color"`
	PaddingLeft  int    `yaml:"padding_left" validate:"gte=0,lte=8"`
	PaddingRight int    `yaml:"padding_right" validate:"gte=0,lte=8"`
}

// Width is the display width of the icon including padding.
func (i Icon) Width() int {
	return i.PaddingLeft + ansi.StringWidth(i.Figure) + i.PaddingRight
}

// Icons holds one icon per stage status plus the info bullet.
type Icons struct {
	Completed Icon `yaml:"completed"`
	Current   Icon `yaml:"current"`
	Failed    Icon `yaml:"failed"`
	Pending   Icon `yaml:"pending"`
	Skipped   Icon `yaml:"skipped"`
	Paused    Icon `yaml:"paused"`
	Aborted   Icon `yaml:"aborted"`
	Async     Icon `yaml:"async"`
	Warning   Icon `yaml:"warning"`
	Info      Icon `yaml:"info"`
}

// For returns the icon of a status.
func (i Icons) For(s stage.Status) Icon {
	switch s {
	case stage.Completed:
		return i.Completed
	case stage.Current:
		return i.Current
	case stage.Failed:
		return i.Failed
	case stage.Skipped:
		return i.Skipped
	case stage.Paused:
		return i.Paused
	case stage.Aborted:
		return i.Aborted
	case stage.Async:
		return i.Async
	case stage.Warning:
		return i.Warning
	default:
		return i.Pending
	}
}

// Spinners are indices into spinner.CharSets.
type Spinners struct {
	Stage int `yaml:"stage"`
	Info  int `yaml:"info"`
}

// TitleDesign styles the divider around the title.
type TitleDesign struct {
	DividerChar  string `yaml:"divider_char" validate:"required"`
	DividerColor string `yaml:"divider_color"`
	// Padding is the number of spaces outside the divider.
	Padding     int    `yaml:"padding" validate:"gte=0,lte=20"`
	TextColor   string `yaml:"text_color"`
	TextPadding int    `yaml:"text_padding" validate:"gte=0,lte=20"`
	// Width of the divider, clamped to the terminal. 0 uses the full width.
	Width int `yaml:"width" validate:"gte=0"`
}

// Design is the complete visual theme.
type Design struct {
	Icons    Icons       `yaml:"icons"`
	Spinners Spinners    `yaml:"spinners"`
	Title    TitleDesign `yaml:"title"`
	// Color disables every color and style when false.
	Color bool `yaml:"color"`
}

// DefaultDesign returns the built-in theme for the given terminal.
func DefaultDesign(caps TerminalCapabilities) Design {
	d := Design{
		Spinners: Spinners{Stage: 11, Info: 7}, // ⣾⣽⣻⢿ and ◐◓◑◒
		Title: TitleDesign{
			DividerChar:  "─",
			DividerColor: "dim",
			Padding:      1,
			TextColor:    "white",
			TextPadding:  1,
			Width:        50,
		},
		Color: caps.SupportsColor,
		Icons: Icons{
			Completed: Icon{Figure: "✔", Color: "green"},
			Current:   Icon{Figure: "▶", Color: "yellow"},
			Failed:    Icon{Figure: "✘", Color: "red"},
			Pending:   Icon{Figure: "◼", Color: "dim"},
			Skipped:   Icon{Figure: "◯", Color: "dim", PaddingRight: 1},
			Paused:    Icon{Figure: "❙", Color: "yellow"},
			Aborted:   Icon{Figure: "⊘", Color: "red"},
			Async:     Icon{Figure: "↻", Color: "cyan"},
			Warning:   Icon{Figure: "⚠", Color: "yellow"},
			Info:      Icon{Figure: "▸", PaddingLeft: 2, PaddingRight: 1},
		},
	}
	if caps.SupportsUnicode {
		return d
	}

	d.Spinners = Spinners{Stage: 9, Info: 9} // ASCII: | / - \
	d.Title.DividerChar = "-"
	d.Icons.Completed.Figure = "[OK]"
	d.Icons.Current.Figure = ">"
	d.Icons.Failed.Figure = "[FAIL]"
	d.Icons.Pending.Figure = "-"
	d.Icons.Skipped.Figure = "[SKIP]"
	d.Icons.Paused.Figure = "[PAUSE]"
	d.Icons.Aborted.Figure = "[ABORT]"
	d.Icons.Async.Figure = "[ASYNC]"
	d.Icons.Warning.Figure = "[WARN]"
	d.Icons.Info.Figure = ">"
	return d
}

// IconWidth adapts the design to compaction.Inputs.IconWidth.
func (d Design) IconWidth(s stage.Status) int {
	return d.Icons.For(s).Width()
}

var designValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks icon and title settings and that both spinner indices
// exist in spinner.CharSets.
func (d Design) Validate() error {
	if err := designValidator.Struct(d); err != nil {
		return fmt.Errorf("invalid design: %w", err)
	}
	for name, idx := range map[string]int{"stage": d.Spinners.Stage, "info": d.Spinners.Info} {
		if _, ok := spinner.CharSets[idx]; !ok {
			return fmt.Errorf("invalid design: %s spinner %d does not exist", name, idx)
		}
	}
	return nil
}

// LoadDesignFile overlays a YAML theme onto base. Keys missing from the file
// keep the value from base.
func LoadDesignFile(path string, base Design) (Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, apperrors.ConfigParseError(path, err)
	}

	d := base
	if err := yaml.Unmarshal(data, &d); err != nil {
		return base, apperrors.ConfigParseError(path, err)
	}
	if err := d.Validate(); err != nil {
		return base, apperrors.ConfigParseError(path, err)
	}
	return d, nil
}
