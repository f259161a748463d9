package progress

import (
	"os"

	"golang.org/x/term"
)

const (
	fallbackColumns = 80
	fallbackRows    = 24
)

// DetectTerminalCapabilities detects terminal features and returns capabilities
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("MSO_ASCII") == "1"

	width, height := 0, 0
	if isTTY {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
		Height:          height,
	}
}

// TerminalSize returns the columns and rows of stdout, or 80x24 when stdout
// is not a terminal.
func TerminalSize() (columns, rows int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return fallbackColumns, fallbackRows
	}
	return w, h
}
