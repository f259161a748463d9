package cli

import (
	"context"
	"errors"

	apperrors "github.com/ariel-frischer/multistage/internal/errors"
)

// Exit codes for the multistage CLI
const (
	ExitSuccess          = 0
	ExitFailed           = 1
	ExitInvalidArguments = 3
	ExitInterrupted      = 130
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil && cliErr.Category == apperrors.Argument {
		return ExitInvalidArguments
	}
	return ExitFailed
}
