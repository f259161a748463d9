package progress

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/multistage/internal/compaction"
	"github.com/ariel-frischer/multistage/internal/stage"
)

func frameWithStages(n int) Frame {
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	tracker := stage.NewTracker(names, false)
	tracker.Refresh(names[0], stage.RefreshOptions{})
	return Frame{
		Inputs: compaction.Inputs{Stages: tracker.Snapshot()},
		Design: DefaultDesign(TerminalCapabilities{}),
	}
}

func TestDisplayModel_WindowSizeRelevels(t *testing.T) {
	t.Parallel()

	// 10 stages + 3 padding + 1 safety line
	m := displayModel{frame: frameWithStages(10)}

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, next.(displayModel).frame.Level)

	next, _ = next.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 1, next.(displayModel).frame.Level)
	assert.Equal(t, 80, next.(displayModel).frame.Columns)
}

func TestDisplayModel_FinalFrameQuits(t *testing.T) {
	t.Parallel()

	f := frameWithStages(3)
	f.Final = true
	f.Level = 5

	next, cmd := displayModel{}.Update(frameMsg(f))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	sized, _ := next.Update(tea.WindowSizeMsg{Width: 80, Height: 2})
	assert.Equal(t, 0, sized.(displayModel).frame.Level, "final frames always show everything")
}

func TestDisplayModel_TickAdvancesSpinner(t *testing.T) {
	t.Parallel()

	m := displayModel{frame: frameWithStages(2)}
	next, cmd := m.Update(tickMsg{})

	assert.Equal(t, 1, next.(displayModel).tick)
	assert.NotNil(t, cmd)
	assert.NotEmpty(t, next.View())
}
