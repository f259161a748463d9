package progress

import (
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// spinnerInterval is the animation rate of stage and info spinners.
const spinnerInterval = 100 * time.Millisecond

type frameMsg Frame

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// displayModel is the bubbletea model behind Display.
type displayModel struct {
	frame Frame
	tick  int
}

func (m displayModel) Init() tea.Cmd {
	return tick()
}

func (m displayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = Frame(msg)
		if m.frame.Final {
			return m, tea.Quit
		}
	case tickMsg:
		m.tick++
		return m, tick()
	case tea.WindowSizeMsg:
		m.frame = m.frame.Relevel(msg.Height, msg.Width)
	}
	return m, nil
}

func (m displayModel) View() string {
	return View(m.frame, m.tick, time.Now())
}

// DisplayOptions configures a Display.
type DisplayOptions struct {
	// Output defaults to os.Stdout.
	Output io.Writer
}

// ProgressDisplay repaints the whole progress frame in place on an
// interactive terminal. Keyboard input is not read and interrupt signals
// are left to the host process.
type ProgressDisplay struct {
	program   *tea.Program
	done      chan struct{}
	err       error
	closeOnce sync.Once
}

// NewProgressDisplay starts the display loop in the background.
func NewProgressDisplay(opts DisplayOptions) *ProgressDisplay {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	d := &ProgressDisplay{
		program: tea.NewProgram(displayModel{},
			tea.WithInput(nil),
			tea.WithOutput(out),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(d.done)
		_, d.err = d.program.Run()
	}()
	return d
}

// Render replaces the displayed frame. A Final frame is painted once and
// ends the display loop.
func (d *ProgressDisplay) Render(f Frame) {
	select {
	case <-d.done:
	default:
		d.program.Send(frameMsg(f))
	}
}

// Close stops the display loop if it is still running and waits for the
// terminal to be restored.
func (d *ProgressDisplay) Close() error {
	d.closeOnce.Do(func() {
		d.program.Quit()
		<-d.done
	})
	return d.err
}
