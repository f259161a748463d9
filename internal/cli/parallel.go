package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/multistage/internal/block"
	apperrors "github.com/ariel-frischer/multistage/internal/errors"
	"github.com/ariel-frischer/multistage/internal/lifecycle"
	"github.com/ariel-frischer/multistage/internal/output"
	"github.com/ariel-frischer/multistage/internal/stage"
)

type parallelFlags struct {
	workers int
	sleep   time.Duration
}

func newParallelCommand(g *globalFlags) *cobra.Command {
	f := &parallelFlags{}
	cmd := &cobra.Command{
		Use:     "parallel",
		Short:   "Run concurrent workers against one display",
		GroupID: GroupDemos,
		Example: `  multistage parallel --workers 6 --sleep 300ms`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.workers < 1 {
				return apperrors.NewArgumentError("--workers must be at least 1")
			}
			rt, err := g.setup(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer rt.close()
			return lifecycle.Run(cmd.Context(), rt, "parallel", func(ctx context.Context) error {
				return runParallel(ctx, rt, f)
			})
		},
	}
	cmd.Flags().IntVar(&f.workers, "workers", 4, "Number of concurrent workers")
	cmd.Flags().DurationVar(&f.sleep, "sleep", 400*time.Millisecond, "Time per worker step")
	return cmd
}

func workerNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("worker-%d", i+1)
	}
	return names
}

func progressKey(name string) string {
	return name + ".progress"
}

func runParallel(ctx context.Context, rt *session, f *parallelFlags) error {
	names := workerNames(f.workers)
	opts := rt.options("Processing shards", names)
	for _, name := range names {
		opts.StageSpecificBlock = append(opts.StageSpecificBlock, block.Descriptor{
			Kind:  block.DynamicKeyValue,
			Label: "Progress",
			Stage: name,
			Get:   func(d block.Data) string { return d.String(progressKey(name)) },
		})
	}

	p, err := output.NewParallel(opts)
	if err != nil {
		return err
	}
	rt.log.Info("parallel started", zap.Int("workers", f.workers))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			return runWorker(ctx, p, name, i, f.sleep)
		})
	}

	if err := g.Wait(); err != nil {
		p.StopWithStatus(stage.Aborted)
		rt.log.Info("parallel interrupted", zap.Error(err))
		return err
	}
	p.Stop()
	return rt.printSummary(p.Snapshot())
}

// runWorker reports 3 to 5 steps; every other worker pauses once midway.
func runWorker(ctx context.Context, p *output.Parallel, name string, i int, sleep time.Duration) error {
	steps := 3 + i%3
	p.StartStage(name, nil)
	for step := 1; step <= steps; step++ {
		if err := pause(ctx, sleep); err != nil {
			p.UpdateStage(name, stage.Aborted, nil)
			return err
		}
		p.UpdateData(block.Data{progressKey(name): fmt.Sprintf("%d/%d", step, steps)})

		if step == 2 && i%2 == 1 {
			p.PauseStage(name, nil)
			if err := pause(ctx, sleep); err != nil {
				p.UpdateStage(name, stage.Aborted, nil)
				return err
			}
			p.ResumeStage(name, nil)
		}
	}
	p.StopStage(name, nil)
	return nil
}
