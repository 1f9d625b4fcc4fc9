package plugin

import (
	"fmt"
	"slices"
	"sync"

	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// Factory builds a configured plugin instance.
type Factory func(pctx Context, opts Options) (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name.
// Returns an error if the name is empty, the factory nil, or the name taken.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if f == nil {
		return fmt.Errorf("cannot register nil factory for plugin %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Has checks if a plugin with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.factories)
}

// New builds the plugin registered as name.
func (r *Registry) New(pctx Context, name string, opts Options) (Plugin, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.PluginError("unknown plugin").
			WithContext("plugin", name).
			WithContext("available", r.Names()).
			Build()
	}

	p, err := f(pctx.Normalize(), opts)
	if err != nil {
		return nil, wrap(NewPluginError(name, "configure", err))
	}
	return p, nil
}

// FromConfig builds every configured plugin in configuration order.
func (r *Registry) FromConfig(pctx Context, cfgs []config.PluginConfig) ([]Plugin, error) {
	plugins := make([]Plugin, 0, len(cfgs))
	for _, pc := range cfgs {
		p, err := r.New(pctx, pc.Name, Options(pc.Options))
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// globalRegistry is the default plugin registry used throughout the application.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the global plugin registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a factory to the global registry. Built-in plugins call it
// from init and panic on conflict.
func Register(name string, f Factory) {
	if err := globalRegistry.Register(name, f); err != nil {
		panic(err)
	}
}

// Names returns the plugin names in the global registry.
func Names() []string {
	return globalRegistry.Names()
}
