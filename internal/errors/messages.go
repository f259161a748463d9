package errors

import (
	"fmt"
	"strings"
)

// DuplicateStage is returned when a stage name is declared twice.
func DuplicateStage(name string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("stage %q is declared more than once", name),
		"give every stage a unique name",
	)
}

// InvalidTimerUnit is returned for a timer unit other than ms or s.
func InvalidTimerUnit(unit string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid timer unit %q", unit),
		"timer unit must be one of: ms, s",
	)
}

// UnknownStatus is returned when a status name cannot be parsed.
func UnknownStatus(name string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown stage status %q", name),
		"use one of: "+strings.Join(valid, ", "),
	)
}

// ConfigParseError wraps a settings or theme file that could not be read.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load %s", path),
		"check the file is valid",
		"remove the file to fall back to defaults",
	)
}
