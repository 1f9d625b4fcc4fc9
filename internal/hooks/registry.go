package hooks

import (
	"sync"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/metrics"
)

// Names of the hooks every build defines.
const (
	// BeforeRun receives the mutable *config.Config before resolution starts.
	BeforeRun = "beforeRun"
	// AssetResolved receives each *asset.Asset as the graph builder resolves it.
	AssetResolved = "assetResolved"
	// EmitOutputPath receives the *emit.OutputTarget before the bundle is written.
	EmitOutputPath = "emitOutputPath"
	// AfterEmit receives the *emit.Result once the bundle is on disk.
	AfterEmit = "afterEmit"
	// Done receives the *build.BuildResult at the end of a build.
	Done = "done"
)

// Registry holds the hooks of one build.
type Registry struct {
	mu       sync.RWMutex
	hooks    map[string]*Hook
	order    []string
	recorder metrics.Recorder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks:    make(map[string]*Hook),
		recorder: metrics.NoopRecorder{},
	}
}

// Defaults creates a registry with the built-in build hooks defined.
func Defaults() *Registry {
	r := NewRegistry()
	for _, d := range []struct {
		name string
		kind Kind
	}{
		{BeforeRun, SyncFanOut},
		{AssetResolved, SyncFanOut},
		{EmitOutputPath, SyncFanOut},
		{AfterEmit, ConcurrentAggregated},
		{Done, ConcurrentAggregated},
	} {
		_, _ = r.Define(d.name, d.kind)
	}
	return r
}

// WithRecorder sets the metrics recorder used for tap failures on every
// hook, defined now or later.
func (r *Registry) WithRecorder(rec metrics.Recorder) *Registry {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.mu.Lock()
	r.recorder = rec
	for _, h := range r.hooks {
		h.recorder = rec
	}
	r.mu.Unlock()
	return r
}

// Define creates a hook. Names must be unique within the registry.
func (r *Registry) Define(name string, kind Kind) (*Hook, error) {
	if name == "" {
		return nil, errors.HookError("hook name is required").Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.hooks[name]; exists {
		return nil, errors.HookError("hook already defined").WithContext("hook", name).Build()
	}
	h := &Hook{name: name, kind: kind, recorder: r.recorder}
	r.hooks[name] = h
	r.order = append(r.order, name)
	return h, nil
}

// Hook looks up a hook by name.
func (r *Registry) Hook(name string) (*Hook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hooks[name]
	return h, ok
}

// MustHook returns the named hook or panics. Only use it for hooks known to
// be defined, such as the ones created by Defaults.
func (r *Registry) MustHook(name string) *Hook {
	h, ok := r.Hook(name)
	if !ok {
		panic("hooks: undefined hook " + name)
	}
	return h
}

// Tap adds a sync tap to the named hook.
func (r *Registry) Tap(name, label string, fn SyncFunc) error {
	h, err := r.lookup(name, label)
	if err != nil {
		return err
	}
	return h.Tap(label, fn)
}

// TapAsync adds an async tap to the named hook.
func (r *Registry) TapAsync(name, label string, fn AsyncFunc) error {
	h, err := r.lookup(name, label)
	if err != nil {
		return err
	}
	return h.TapAsync(label, fn)
}

// Names returns hook names in definition order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) lookup(name, label string) (*Hook, error) {
	h, ok := r.Hook(name)
	if !ok {
		return nil, errors.HookError("unknown hook").
			WithContext("hook", name).
			WithContext("tap", label).
			Build()
	}
	return h, nil
}
