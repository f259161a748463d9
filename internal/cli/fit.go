package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/compaction"
	apperrors "github.com/ariel-frischer/multistage/internal/errors"
	"github.com/ariel-frischer/multistage/internal/lifecycle"
	"github.com/ariel-frischer/multistage/internal/progress"
	"github.com/ariel-frischer/multistage/internal/stage"
)

var levelNames = [compaction.MaxLevel + 1]string{
	"everything shown",
	"current stages only",
	"elapsed time hidden",
	"title hidden",
	"pre-stages block hidden",
	"post-stages block hidden",
	"stage info inline",
	"stage info hidden",
	"padding removed",
}

type fitFlags struct {
	stages        []string
	current       []string
	title         string
	rows          int
	columns       int
	pre           int
	post          int
	info          int
	neverCollapse bool
	noElapsed     bool
}

func newFitCommand(g *globalFlags) *cobra.Command {
	f := &fitFlags{}
	cmd := &cobra.Command{
		Use:     "fit",
		Short:   "Report the compaction level for a layout",
		GroupID: GroupTools,
		Example: `  multistage fit --rows 12 --columns 60 --pre 2 --post 1 --info 3
  multistage fit --stages a,b,c --current b,c --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.setup(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer rt.close()

			return lifecycle.Run(cmd.Context(), rt, "fit", func(context.Context) error {
				in, err := f.inputs(rt.design)
				if err != nil {
					return err
				}
				columns, rows := progress.TerminalSize()
				if f.rows > 0 {
					rows = f.rows
				}
				if f.columns > 0 {
					columns = f.columns
				}
				return printFit(rt.out, rt.json, compaction.Determine(in, rows-1, columns), rows, columns)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&f.stages, "stages", []string{"Checkout", "Install", "Build", "Test", "Publish"}, "Stage names in order")
	fl.StringSliceVar(&f.current, "current", nil, "Current stages (default: first stage; several imply parallel mode)")
	fl.StringVar(&f.title, "title", "Deploying", "Display title (empty for none)")
	fl.IntVar(&f.rows, "rows", 0, "Terminal rows (default: current terminal)")
	fl.IntVar(&f.columns, "columns", 0, "Terminal columns (default: current terminal)")
	fl.IntVar(&f.pre, "pre", 0, "Lines in the pre-stages block")
	fl.IntVar(&f.post, "post", 0, "Lines in the post-stages block")
	fl.IntVar(&f.info, "info", 0, "Info lines for each current stage")
	fl.BoolVar(&f.neverCollapse, "never-collapse", false, "Mark every info line never-collapse")
	fl.BoolVar(&f.noElapsed, "no-elapsed", false, "Hide the elapsed time line and stage times")
	return cmd
}

func (f *fitFlags) inputs(design progress.Design) (compaction.Inputs, error) {
	current := f.current
	if len(current) == 0 && len(f.stages) > 0 {
		current = f.stages[:1]
	}

	tracker := stage.NewTracker(f.stages, len(current) > 1)
	for _, name := range current {
		if tracker.IndexOf(name) < 0 {
			return compaction.Inputs{}, apperrors.NewArgumentError(
				fmt.Sprintf("current stage %q is not in --stages", name))
		}
	}
	if tracker.AllowParallel() {
		for _, name := range current {
			tracker.Update(name, stage.Current)
		}
	} else if len(current) == 1 {
		tracker.Refresh(current[0], stage.Bypass(stage.Completed))
	}

	var specific []block.Descriptor
	for _, name := range current {
		specific = append(specific, f.lines(f.info, name, "info")...)
	}

	return compaction.Inputs{
		Title:          f.title,
		HasElapsedTime: !f.noElapsed,
		HasStageTime:   !f.noElapsed,
		PreStages:      block.Format(f.lines(f.pre, "", "pre"), nil),
		PostStages:     block.Format(f.lines(f.post, "", "post"), nil),
		StageSpecific:  block.Format(specific, nil),
		Stages:         tracker.Snapshot(),
		IconWidth:      design.IconWidth,
	}, nil
}

func (f *fitFlags) lines(n int, stageName, label string) []block.Descriptor {
	out := make([]block.Descriptor, 0, n)
	for i := range n {
		out = append(out, block.Descriptor{
			Kind:          block.StaticKeyValue,
			Label:         fmt.Sprintf("%s %d", label, i+1),
			Stage:         stageName,
			Value:         "value",
			NeverCollapse: f.neverCollapse,
		})
	}
	return out
}

type fitReport struct {
	Level       int    `json:"level"`
	Description string `json:"description"`
	TotalHeight int    `json:"total_height"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
}

func printFit(w io.Writer, asJSON bool, res compaction.Result, rows, columns int) error {
	report := fitReport{
		Level:       res.Level,
		Description: levelNames[res.Level],
		TotalHeight: res.TotalHeight,
		Rows:        rows,
		Columns:     columns,
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err := fmt.Fprintf(w, "level: %d (%s)\ntotal height: %d\nterminal: %dx%d\n",
		report.Level, report.Description, report.TotalHeight, report.Columns, report.Rows)
	return err
}
