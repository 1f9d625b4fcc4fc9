// Package banner provides a plugin that prepends a comment to the bundle.
package banner

import (
	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "banner"

func init() {
	plugin.Register(Name, New)
}

// Plugin sets Output.Banner on the build configuration.
type Plugin struct {
	text     string
	override bool
}

// New builds the plugin from the "text" option. With "override: false" an
// already configured banner is kept.
func New(_ plugin.Context, opts plugin.Options) (plugin.Plugin, error) {
	text, err := opts.RequireString("text")
	if err != nil {
		return nil, err
	}
	override, err := opts.Bool("override", true)
	if err != nil {
		return nil, err
	}
	return &Plugin{text: text, override: override}, nil
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Description: "Prepends a comment to the bundle",
		Hooks:       []string{hooks.BeforeRun},
	}
}

// Apply implements plugin.Plugin.
func (p *Plugin) Apply(h *hooks.Registry) error {
	return h.Tap(hooks.BeforeRun, Name, func(args ...any) {
		if len(args) == 0 {
			return
		}
		cfg, ok := args[0].(*config.Config)
		if !ok || cfg == nil {
			return
		}
		if cfg.Output.Banner != "" && !p.override {
			return
		}
		cfg.Output.Banner = p.text
	})
}
