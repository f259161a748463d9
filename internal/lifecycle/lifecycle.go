// Package lifecycle wraps command execution with timing and completion
// callbacks. Handler panics are recovered so a broken handler never changes
// the outcome of the command it observes.
package lifecycle

import (
	"context"
	"time"
)

// Run executes fn between start and completion callbacks. If ctx is already
// done fn is not called and ctx.Err() is returned. The error from fn is
// always returned unchanged.
func Run(ctx context.Context, h Handler, name string, fn func(context.Context) error) error {
	start := time.Now()
	notifyStart(h, name)

	if err := ctx.Err(); err != nil {
		notifyComplete(h, name, false, time.Since(start))
		return err
	}

	err := fn(ctx)
	notifyComplete(h, name, err == nil, time.Since(start))
	return err
}

func notifyStart(h Handler, name string) {
	if h == nil {
		return
	}
	defer func() { _ = recover() }()
	h.OnCommandStart(name)
}

func notifyComplete(h Handler, name string, success bool, duration time.Duration) {
	if h == nil {
		return
	}
	defer func() { _ = recover() }()
	h.OnCommandComplete(name, success, duration)
}
