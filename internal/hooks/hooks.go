// Package hooks provides named extension points that plugins tap into.
//
// A hook is either SyncFanOut, whose taps run one after another on the
// caller's goroutine, or ConcurrentAggregated, whose taps all start at once
// and are awaited together. Taps can only be added before a hook first fires.
package hooks

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/metrics"
	"git.home.luguber.info/inful/minipack/internal/observability"
)

// Kind selects how a hook dispatches to its taps.
type Kind int

const (
	SyncFanOut Kind = iota
	ConcurrentAggregated
)

func (k Kind) String() string {
	switch k {
	case SyncFanOut:
		return "sync"
	case ConcurrentAggregated:
		return "concurrent"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SyncFunc is a tap on a SyncFanOut hook.
type SyncFunc func(args ...any)

// AsyncFunc is a tap on a ConcurrentAggregated hook.
type AsyncFunc func(ctx context.Context, args ...any) error

// Tap is one registered callback.
type Tap struct {
	Label string
	sync  SyncFunc
	async AsyncFunc
}

// Hook is a named, ordered list of taps.
type Hook struct {
	name     string
	kind     Kind
	recorder metrics.Recorder

	mu    sync.Mutex
	taps  []Tap
	fired bool
}

// Name returns the hook name.
func (h *Hook) Name() string { return h.name }

// Kind returns the dispatch kind.
func (h *Hook) Kind() Kind { return h.kind }

// Taps returns the labels of registered taps in order.
func (h *Hook) Taps() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	labels := make([]string, len(h.taps))
	for i, t := range h.taps {
		labels[i] = t.Label
	}
	return labels
}

// Tap appends a callback to a SyncFanOut hook.
func (h *Hook) Tap(label string, fn SyncFunc) error {
	if fn == nil {
		return h.tapError("tap function is nil", label)
	}
	if h.kind != SyncFanOut {
		return h.tapError("cannot add sync tap to concurrent hook", label)
	}
	return h.add(Tap{Label: label, sync: fn})
}

// TapAsync appends a callback to a ConcurrentAggregated hook.
func (h *Hook) TapAsync(label string, fn AsyncFunc) error {
	if fn == nil {
		return h.tapError("tap function is nil", label)
	}
	if h.kind != ConcurrentAggregated {
		return h.tapError("cannot add async tap to sync hook", label)
	}
	return h.add(Tap{Label: label, async: fn})
}

func (h *Hook) add(t Tap) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fired {
		return h.tapError("hook has already fired", t.Label)
	}
	h.taps = append(h.taps, t)
	return nil
}

// snapshot marks the hook fired and returns its taps.
func (h *Hook) snapshot() []Tap {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fired = true
	return append([]Tap(nil), h.taps...)
}

// Call runs every tap of a SyncFanOut hook in registration order and returns
// once the last one has returned. A panicking tap stops the call and is
// returned as a hook error; later taps do not run.
func (h *Hook) Call(args ...any) error {
	if h.kind != SyncFanOut {
		return errors.HookError("Call used on concurrent hook").
			WithContext("hook", h.name).
			Build()
	}
	for _, t := range h.snapshot() {
		if err := h.callTap(t, args); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hook) callTap(t Tap, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.recorder.IncHookFailure(h.name)
			err = errors.HookError("hook tap failed").
				WithCause(fmt.Errorf("panic: %v", r)).
				WithContext("hook", h.name).
				WithContext("tap", t.Label).
				Build()
		}
	}()
	t.sync(args...)
	return nil
}

// Fire starts every tap of a ConcurrentAggregated hook on its own goroutine
// and waits for all of them. Taps are never canceled because a sibling
// failed. The first failure is returned; later ones are logged. A panicking
// tap is reported as a failure.
func (h *Hook) Fire(ctx context.Context, args ...any) error {
	if h.kind != ConcurrentAggregated {
		return errors.HookError("Fire used on sync hook").
			WithContext("hook", h.name).
			Build()
	}
	taps := h.snapshot()
	if len(taps) == 0 {
		return nil
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []error
	)
	for _, t := range taps {
		g.Go(func() error {
			err := h.runTap(ctx, t, args)
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
			return err
		})
	}
	first := g.Wait()

	for _, err := range failures {
		if err == first {
			continue
		}
		observability.WarnContext(ctx, "Additional hook tap failure",
			logfields.Hook(h.name),
			logfields.Error(err))
	}
	return first
}

func (h *Hook) runTap(ctx context.Context, t Tap, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			h.recorder.IncHookFailure(h.name)
			err = errors.HookError("hook tap failed").
				WithCause(err).
				WithContext("hook", h.name).
				WithContext("tap", t.Label).
				Build()
		}
	}()
	return t.async(ctx, args...)
}

func (h *Hook) tapError(msg, label string) error {
	return errors.HookError(msg).
		WithContext("hook", h.name).
		WithContext("tap", label).
		Build()
}
