// Package metricsfile provides a plugin that dumps the build's Prometheus
// metrics to a textfile once the build is done.
package metricsfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "metrics"

func init() {
	plugin.Register(Name, New)
}

// Plugin writes a node-exporter style textfile.
type Plugin struct {
	pctx plugin.Context
	path string
}

// New builds the plugin. The "path" option is required and the build must
// expose a metrics gatherer.
func New(pctx plugin.Context, opts plugin.Options) (plugin.Plugin, error) {
	if pctx.Gatherer == nil {
		return nil, fmt.Errorf("metrics are not enabled for this build")
	}
	p, err := opts.RequireString("path")
	if err != nil {
		return nil, err
	}
	return &Plugin{pctx: pctx, path: pctx.ResolvePath(p)}, nil
}

// Path returns the textfile location.
func (p *Plugin) Path() string { return p.path }

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Description: "Writes build metrics to a Prometheus textfile",
		Hooks:       []string{hooks.Done},
	}
}

// Apply implements plugin.Plugin.
func (p *Plugin) Apply(h *hooks.Registry) error {
	return h.TapAsync(hooks.Done, Name, func(_ context.Context, _ ...any) error {
		if err := os.MkdirAll(filepath.Dir(p.path), 0o750); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
		if err := prometheus.WriteToTextfile(p.path, p.pctx.Gatherer); err != nil {
			return fmt.Errorf("write metrics textfile: %w", err)
		}
		p.pctx.Logger.Debug("Metrics written", logfields.Plugin(Name), logfields.Path(p.path))
		return nil
	})
}
