package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariel-frischer/multistage/internal/block"
	apperrors "github.com/ariel-frischer/multistage/internal/errors"
	"github.com/ariel-frischer/multistage/internal/lifecycle"
	"github.com/ariel-frischer/multistage/internal/output"
	"github.com/ariel-frischer/multistage/internal/stage"
)

var demoStages = []string{"Checkout", "Install", "Build", "Test", "Package", "Publish"}

const demoSteps = 4

type demoFlags struct {
	sleep  time.Duration
	failAt string
	skipTo string
}

func newDemoCommand(g *globalFlags) *cobra.Command {
	f := &demoFlags{}
	cmd := &cobra.Command{
		Use:     "demo",
		Short:   "Walk through a sequential deploy",
		GroupID: GroupDemos,
		Example: `  multistage demo --sleep 2s
  multistage demo --skip-to Package
  multistage demo --fail-at Test --ci`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			rt, err := g.setup(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer rt.close()
			return lifecycle.Run(cmd.Context(), rt, "demo", func(ctx context.Context) error {
				return runDemo(ctx, rt, f)
			})
		},
	}
	cmd.Flags().DurationVar(&f.sleep, "sleep", 800*time.Millisecond, "Time spent in each stage")
	cmd.Flags().StringVar(&f.failAt, "fail-at", "", "Fail the run at this stage")
	cmd.Flags().StringVar(&f.skipTo, "skip-to", "", "Skip from the first stage to this one")
	return cmd
}

func (f *demoFlags) validate() error {
	for flag, name := range map[string]string{"--fail-at": f.failAt, "--skip-to": f.skipTo} {
		if name != "" && !slices.Contains(demoStages, name) {
			return apperrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("unknown stage %q for %s", name, flag),
				fmt.Sprintf("stages: %v", demoStages),
			)
		}
	}
	if f.sleep < 0 {
		return apperrors.NewArgumentError("--sleep must not be negative")
	}
	return nil
}

func demoOptions(rt *session) output.Options {
	opts := rt.options("Deploying multistage", demoStages)
	opts.Data = block.Data{"version": "0.1.0", "target": "staging"}
	opts.PreStagesBlock = []block.Descriptor{
		{Kind: block.StaticKeyValue, Label: "Version", Value: "0.1.0", Bold: true},
		{
			Kind:          block.DynamicKeyValue,
			Label:         "Target",
			Get:           func(d block.Data) string { return d.String("target") },
			Color:         "cyan",
			NeverCollapse: true,
		},
	}
	opts.StageSpecificBlock = []block.Descriptor{
		{
			Kind:  block.DynamicKeyValue,
			Label: "Packages",
			Stage: "Install",
			Get:   func(d block.Data) string { return d.String("packages") },
		},
		{
			Kind:  block.DynamicKeyValue,
			Label: "Passed",
			Stage: "Test",
			Get:   func(d block.Data) string { return d.String("passed") },
			Color: "green",
		},
		{Kind: block.Message, Stage: "Publish", Value: "Pushing to the registry", Color: "dim"},
	}
	opts.PostStagesBlock = []block.Descriptor{
		{
			Kind:              block.DynamicKeyValue,
			Label:             "Artifact",
			Get:               func(d block.Data) string { return d.String("artifact") },
			OnlyShowAtEndInCI: true,
		},
	}
	return opts
}

// demoProgress is the data a stage reports after step of demoSteps.
func demoProgress(name string, step int) block.Data {
	switch name {
	case "Install":
		return block.Data{"packages": strconv.Itoa(step * 12)}
	case "Test":
		return block.Data{"passed": fmt.Sprintf("%d/%d", step*25, demoSteps*25)}
	case "Package":
		if step == demoSteps {
			return block.Data{"artifact": "dist/multistage_0.1.0.tar.gz"}
		}
	}
	return nil
}

func runDemo(ctx context.Context, rt *session, f *demoFlags) error {
	seq, err := output.NewSequential(demoOptions(rt))
	if err != nil {
		return err
	}
	rt.log.Info("demo started", zap.Duration("sleep", f.sleep))

	skipIdx := slices.Index(demoStages, f.skipTo)
	for i := 0; i < len(demoStages); i++ {
		if i == 1 && skipIdx > 1 {
			i = skipIdx
			seq.SkipTo(demoStages[i], nil)
		} else {
			seq.Next(nil)
		}
		name := demoStages[i]

		for step := 1; step <= demoSteps; step++ {
			if err := pause(ctx, f.sleep/demoSteps); err != nil {
				seq.StopWithStatus(stage.Aborted)
				rt.log.Info("demo interrupted", zap.String("stage", name))
				return err
			}
			seq.UpdateData(demoProgress(name, step))
		}

		if name == f.failAt {
			seq.Error()
			rt.log.Info("demo failed", zap.String("stage", name))
			if err := rt.printSummary(seq.Snapshot()); err != nil {
				return err
			}
			return apperrors.NewRuntimeError(fmt.Sprintf("stage %q failed", name), "drop --fail-at to finish the run")
		}
	}

	seq.Stop()
	return rt.printSummary(seq.Snapshot())
}
