// Package outputpath provides a plugin that moves the bundle to a fixed
// path through the emitOutputPath hook.
package outputpath

import (
	"log/slog"

	"git.home.luguber.info/inful/minipack/internal/emit"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "outputpath"

func init() {
	plugin.Register(Name, New)
}

// Plugin overrides the bundle destination.
type Plugin struct {
	path   string
	logger *slog.Logger
}

// New builds the plugin. The "path" option is required; relative paths are
// anchored at the configuration directory.
func New(pctx plugin.Context, opts plugin.Options) (plugin.Plugin, error) {
	p, err := opts.RequireString("path")
	if err != nil {
		return nil, err
	}
	return &Plugin{path: pctx.ResolvePath(p), logger: pctx.Logger}, nil
}

// Path returns the destination the plugin sets.
func (p *Plugin) Path() string { return p.path }

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Description: "Writes the bundle to a fixed path",
		Hooks:       []string{hooks.EmitOutputPath},
	}
}

// Apply implements plugin.Plugin.
func (p *Plugin) Apply(h *hooks.Registry) error {
	return h.Tap(hooks.EmitOutputPath, Name, func(args ...any) {
		target, ok := firstArg[*emit.OutputTarget](args)
		if !ok {
			p.logger.Warn("emitOutputPath called without an output target", logfields.Plugin(Name))
			return
		}
		// A rejected change is logged by the target.
		_ = target.ChangeOutputPath(p.path)
	})
}

func firstArg[T any](args []any) (T, bool) {
	var zero T
	if len(args) == 0 {
		return zero, false
	}
	v, ok := args[0].(T)
	return v, ok
}
