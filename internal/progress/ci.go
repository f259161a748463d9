package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ariel-frischer/multistage/internal/block"
	"github.com/ariel-frischer/multistage/internal/compaction"
	"github.com/ariel-frischer/multistage/internal/stage"
)

const (
	// DefaultHeartbeat is how long a stage may stay silent in line mode.
	DefaultHeartbeat = 5 * time.Second
	// DefaultThrottle is the minimum gap between two prints of one dynamic value.
	DefaultThrottle = time.Second

	infoIndent = 3
)

// CIOptions configures a CIOutput.
type CIOptions struct {
	// Heartbeat re-prints a long-running current stage. Zero selects DefaultHeartbeat.
	Heartbeat time.Duration
	// Throttle limits repeated dynamic values. Zero selects DefaultThrottle.
	Throttle time.Duration
	// Now is the clock used for throttling and heartbeat times. Nil selects time.Now.
	Now func() time.Time
}

type infoKey struct {
	block compaction.Block
	index int
}

// CIOutput writes one line per meaningful change instead of repainting.
// It is used when the output is not an interactive terminal.
type CIOutput struct {
	mu        sync.Mutex
	w         io.Writer
	heartbeat time.Duration
	throttle  time.Duration
	now       func() time.Time

	last        Frame
	headerDone  bool
	closed      bool
	finished    map[string]bool
	announced   map[string]bool
	held        map[string]stage.Status
	seenInfo    map[string]bool
	lastPrinted map[infoKey]time.Time
	timers      map[string]*time.Timer
	inflight    sync.WaitGroup
}

// NewCIOutput creates a line-mode renderer writing to w.
func NewCIOutput(w io.Writer, opts CIOptions) *CIOutput {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	if opts.Throttle <= 0 {
		opts.Throttle = DefaultThrottle
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CIOutput{
		w:           w,
		heartbeat:   opts.Heartbeat,
		throttle:    opts.Throttle,
		now:         opts.Now,
		finished:    make(map[string]bool),
		announced:   make(map[string]bool),
		held:        make(map[string]stage.Status),
		seenInfo:    make(map[string]bool),
		lastPrinted: make(map[infoKey]time.Time),
		timers:      make(map[string]*time.Timer),
	}
}

// Render prints whatever changed since the previous frame.
func (o *CIOutput) Render(f Frame) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.last = f
	if !o.headerDone {
		o.printHeader(f)
		o.headerDone = true
	}

	for _, e := range f.Stages.Entries {
		if o.finished[e.Name] {
			continue
		}
		switch {
		case e.Status == stage.Pending:
		case e.Status == stage.Current:
			delete(o.held, e.Name)
			if o.announced[e.Name] {
				o.printStageInfos(f, e.Name)
				continue
			}
			o.announced[e.Name] = true
			o.printCurrent(f, e)
			o.schedule(e.Name)
		case e.Status.IsTerminal():
			o.cancel(e.Name)
			o.finished[e.Name] = true
			o.printFinished(f, e)
		default:
			o.cancel(e.Name)
			o.announced[e.Name] = false
			if o.held[e.Name] == e.Status {
				continue
			}
			o.held[e.Name] = e.Status
			o.println(fmt.Sprintf("%s %s - %s", f.Design.Icons.For(e.Status).Figure, e.Name, capitalize(e.Status.String())))
		}
	}

	if f.Final {
		o.printSummary(f)
	}
}

// Close cancels pending heartbeats and waits for any that are running.
func (o *CIOutput) Close() error {
	o.mu.Lock()
	o.closed = true
	for name := range o.timers {
		o.cancel(name)
	}
	o.mu.Unlock()

	o.inflight.Wait()
	return nil
}

func (o *CIOutput) println(s string) {
	fmt.Fprintln(o.w, s)
}

func (o *CIOutput) printHeader(f Frame) {
	if f.Title != "" {
		divider := strings.Repeat(f.Design.Title.DividerChar, 5)
		o.println(divider + " " + f.Title + " " + divider)
	}
	o.println("Stages:")
	for _, e := range f.Stages.Entries {
		o.println(fmt.Sprintf("%d. %s", e.Index+1, e.Name))
	}
	o.println("")
}

func (o *CIOutput) printCurrent(f Frame, e stage.Entry) {
	o.println(f.Design.Icons.Current.Figure + " " + e.Name + "…")
	o.printStageInfos(f, e.Name)
}

func (o *CIOutput) printFinished(f Frame, e stage.Entry) {
	icon := f.Design.Icons.For(e.Status).Figure
	switch {
	case e.Status == stage.Skipped:
		o.println(icon + " " + e.Name + " - Skipped")
		return
	case f.HasStageTime:
		o.println(fmt.Sprintf("%s %s (%s)", icon, e.Name, ReadableTime(e.Elapsed, f.TimerUnit)))
	default:
		o.println(icon + " " + e.Name)
	}
	o.printStageInfos(f, e.Name)
}

func (o *CIOutput) printStageInfos(f Frame, name string) {
	o.printInfos(f.PreStages, compaction.PreStages, infoIndent, false)
	o.printInfos(block.ForStage(f.StageSpecific, name), compaction.StageSpecific, infoIndent, false)
	o.printInfos(f.PostStages, compaction.PostStages, infoIndent, false)
}

func (o *CIOutput) printSummary(f Frame) {
	o.println("")
	o.printInfos(f.PreStages, compaction.PreStages, 0, true)
	o.printInfos(f.PostStages, compaction.PostStages, 0, true)
	if f.HasElapsedTime {
		o.println("")
		o.println("Elapsed time: " + ReadableTime(f.Elapsed, f.TimerUnit))
	}
}

// printInfos prints each item once per distinct text. force is the final
// summary, which reprints everything including end-only items.
func (o *CIOutput) printInfos(items []block.Formatted, b compaction.Block, indent int, force bool) {
	now := o.now()
	spaces := strings.Repeat(" ", indent)
	for _, it := range items {
		if it.Value == "" {
			continue
		}
		if it.OnlyShowAtEndInCI && !force {
			continue
		}
		text := it.Text()
		key := infoKey{block: b, index: it.Index}
		if !force {
			if o.seenInfo[text] {
				continue
			}
			if last, ok := o.lastPrinted[key]; ok && it.Kind == block.DynamicKeyValue && now.Sub(last) < o.throttle {
				continue
			}
		}
		o.println(spaces + text)
		o.seenInfo[text] = true
		o.lastPrinted[key] = now
	}
}

// schedule arms the heartbeat of a current stage. Callers hold mu.
func (o *CIOutput) schedule(name string) {
	o.inflight.Add(1)
	o.timers[name] = time.AfterFunc(o.heartbeat, func() {
		defer o.inflight.Done()
		o.beat(name)
	})
}

// cancel disarms a heartbeat. Callers hold mu.
func (o *CIOutput) cancel(name string) {
	t, ok := o.timers[name]
	if !ok {
		return
	}
	delete(o.timers, name)
	if t.Stop() {
		o.inflight.Done()
	}
}

// beat re-prints a current stage and any of its info values that changed
// since they were last printed.
func (o *CIOutput) beat(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || !o.last.Stages.IsCurrent(name) {
		return
	}
	if _, armed := o.timers[name]; !armed {
		return
	}
	e, ok := o.last.Stages.Get(name)
	if !ok {
		return
	}
	line := o.last.Design.Icons.Current.Figure + " " + name + "…"
	if o.last.HasStageTime {
		line += " (" + ReadableTime(e.ElapsedAt(o.last.At, o.now()), o.last.TimerUnit) + ")"
	}
	o.println(line)
	o.printStageInfos(o.last, name)
	o.schedule(name)
}
