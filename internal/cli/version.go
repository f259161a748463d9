package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/multistage/internal/build"
)

func newVersionCommand() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		GroupID: GroupTools,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout(), plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}

func printVersion(w io.Writer, plain bool) {
	label := fmt.Sprint
	value := fmt.Sprint
	if !plain {
		label = color.New(color.FgCyan, color.Bold).SprintFunc()
		value = color.New(color.FgWhite).SprintFunc()
	}
	fmt.Fprintf(w, "%s %s\n", label("multistage"), value(build.Version))
	fmt.Fprintf(w, "%s %s\n", label("commit:"), value(build.Commit))
	fmt.Fprintf(w, "%s %s\n", label("built:"), value(build.BuildDate))
	fmt.Fprintf(w, "%s %s\n", label("go:"), value(runtime.Version()))
	fmt.Fprintf(w, "%s %s/%s\n", label("platform:"), value(runtime.GOOS), value(runtime.GOARCH))
}
