// Package errors_test tests domain error constructors and their remediation steps.
// Related: internal/errors/messages.go
// Tags: errors, messages, remediation
package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateStage(t *testing.T) {
	err := DuplicateStage("deploy")

	assert.Equal(t, Argument, err.Category)
	assert.Contains(t, err.Message, `"deploy"`)
	assert.NotEmpty(t, err.Remediation)
}

func TestInvalidTimerUnit(t *testing.T) {
	err := InvalidTimerUnit("h")

	assert.Equal(t, Argument, err.Category)
	assert.Contains(t, err.Message, `"h"`)
	assert.Contains(t, err.Usage, "ms, s")
}

func TestUnknownStatus(t *testing.T) {
	err := UnknownStatus("done", []string{"pending", "completed"})

	assert.Equal(t, Argument, err.Category)
	assert.True(t, strings.HasSuffix(err.Remediation[0], "pending, completed"))
}

func TestConfigParseError(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := ConfigParseError("settings.json", cause)

	assert.Equal(t, Configuration, err.Category)
	assert.Equal(t, "failed to load settings.json: unexpected EOF", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, err.Remediation, 2)
}
