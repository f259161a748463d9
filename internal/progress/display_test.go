// Package progress_test tests the interactive display loop.
// Related: internal/progress/display.go
// Tags: progress, display, bubbletea, tty
package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/multistage/internal/progress"
)

func TestProgressDisplay_FinalFrameEndsLoop(t *testing.T) {
	var out syncBuffer
	d := progress.NewProgressDisplay(progress.DisplayOptions{Output: &out})

	d.Render(testFrame(0))
	final := testFrame(0)
	final.Final = true
	d.Render(final)

	require.NoError(t, d.Close())
	assert.Contains(t, out.String(), "Deploying")
	assert.Contains(t, out.String(), "Elapsed Time")

	// Rendering and closing after the loop ended are no-ops.
	d.Render(final)
	require.NoError(t, d.Close())
}

func TestProgressDisplay_CloseWithoutFinal(t *testing.T) {
	var out syncBuffer
	d := progress.NewProgressDisplay(progress.DisplayOptions{Output: &out})

	d.Render(testFrame(1))
	require.NoError(t, d.Close())
}
