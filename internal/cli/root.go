// multistage - live multi-stage progress output for terminals and CI logs

// Package cli provides the Cobra commands of the multistage binary: demo
// walks a sequential deploy, parallel drives concurrent workers and fit
// reports how a layout compacts for a given terminal size.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	apperrors "github.com/ariel-frischer/multistage/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupDemos = "demos"
	GroupTools = "tools"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	designPath string
	logFile    string
	logLevel   string
	ci         bool
	json       bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "multistage",
		Short: "Live multi-stage progress output",
		Long: `multistage renders the progress of a multi-stage run as a live,
self-compacting terminal display, or as plain lines in CI logs.`,
		Example: `  # Sequential deploy walkthrough
  multistage demo

  # Skip ahead, then fail at a stage
  multistage demo --skip-to Test --fail-at Package

  # Concurrent workers
  multistage parallel --workers 6

  # How would this layout compact in a 20-row terminal?
  multistage fit --rows 20 --stages build,test,deploy --pre 2`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddGroup(&cobra.Group{ID: GroupDemos, Title: "Demos:"})
	root.AddGroup(&cobra.Group{ID: GroupTools, Title: "Tools:"})
	root.SetHelpCommandGroupID(GroupTools)
	root.SetCompletionCommandGroupID(GroupTools)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", ".multistage.json", "Path to config file")
	pf.StringVar(&flags.designPath, "design", "", "Path to a YAML design file (overrides design_file)")
	pf.StringVar(&flags.logFile, "log-file", "", "Write structured logs to this file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.ci, "ci", false, "Force line-oriented CI output")
	pf.BoolVar(&flags.json, "json", false, "Suppress the display and print a JSON summary")

	root.AddCommand(
		newDemoCommand(flags),
		newParallelCommand(flags),
		newFitCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		apperrors.PrintError(err)
	}
	return ExitCode(err)
}
