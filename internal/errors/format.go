package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders err with coloured headings. Non-CLIErrors are shown
// under the generic "Error" heading. Returns "" for nil.
func FormatError(err error) string {
	return format(err, true)
}

// FormatErrorPlain renders err without ANSI colour codes.
func FormatErrorPlain(err error) string {
	return format(err, false)
}

// FormatSimpleError renders err as a single "<Category>: message" line.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s\n", category, err.Error())
}

// PrintError writes the coloured error to stderr.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError writes the coloured error to w. Nothing is written for nil.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

func format(err error, colored bool) string {
	if err == nil {
		return ""
	}

	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: ErrorCategory(-1), Message: err.Error()}
	}

	heading := fmt.Sprint
	label := fmt.Sprint
	if colored {
		heading = color.New(color.FgRed, color.Bold).SprintFunc()
		label = color.New(color.FgYellow).SprintFunc()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", heading(cliErr.Category.String()), cliErr.Message)

	if cliErr.Usage != "" {
		fmt.Fprintf(&b, "\n%s\n  %s\n", label("Usage:"), cliErr.Usage)
	}

	if len(cliErr.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", label("To fix this:"))
		for i, step := range cliErr.Remediation {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}

	return b.String()
}
