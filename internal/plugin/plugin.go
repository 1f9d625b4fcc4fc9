// Package plugin provides the plugin system for extending minipack builds.
// Plugins tap the build's hooks; they never touch the dependency graph
// directly.
package plugin

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/observability"
)

// Plugin represents a minipack plugin.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, hooks).
	Metadata() PluginMetadata

	// Apply registers the plugin's taps. It is called exactly once per
	// build, before any module is resolved.
	Apply(h *hooks.Registry) error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "outputpath", "manifest").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Description provides a human-readable summary of the plugin's purpose.
	Description string

	// Hooks lists the hooks the plugin taps.
	Hooks []string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// ApplyAll calls Apply on each plugin in order. The first failure stops the
// loop and is returned as a plugin-category error wrapping *PluginError.
func ApplyAll(plugins []Plugin, h *hooks.Registry) error {
	for _, p := range plugins {
		md := p.Metadata()
		if err := md.Validate(); err != nil {
			return wrap(NewPluginError(md.Name, "validate", err))
		}
		if err := p.Apply(h); err != nil {
			return wrap(NewPluginError(md.Name, "apply", err))
		}
		observability.DebugContext(context.Background(), "Plugin applied", logfields.Plugin(md.String()))
	}
	return nil
}

func wrap(pe *PluginError) error {
	return errors.WrapError(pe, errors.CategoryPlugin, "plugin failed").
		WithContext("plugin", pe.PluginName).
		WithContext("operation", pe.Operation).
		Fatal().
		Build()
}
