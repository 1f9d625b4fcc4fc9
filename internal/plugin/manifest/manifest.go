// Package manifest provides a plugin that writes a JSON description of the
// bundled modules next to the bundle.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/minipack/internal/emit"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "manifest"

// DefaultFilename is written beside the bundle unless "filename" is set.
const DefaultFilename = "manifest.json"

func init() {
	plugin.Register(Name, New)
}

// Manifest is the document the plugin writes.
type Manifest struct {
	Bundle  string   `json:"bundle"`
	Bytes   int      `json:"bytes"`
	Entry   int      `json:"entry"`
	Modules []Module `json:"modules"`
}

// Module describes one bundled module.
type Module struct {
	ID      int      `json:"id"`
	Path    string   `json:"path"`
	Bytes   int      `json:"bytes"`
	Imports []Import `json:"imports"`
}

// Import is one resolved import of a module.
type Import struct {
	Specifier string `json:"specifier"`
	ID        int    `json:"id"`
}

// Plugin writes the manifest after emission.
type Plugin struct {
	pctx     plugin.Context
	filename string
}

// New builds the plugin.
func New(pctx plugin.Context, opts plugin.Options) (plugin.Plugin, error) {
	filename, err := opts.String("filename", DefaultFilename)
	if err != nil {
		return nil, err
	}
	if filepath.Base(filename) != filename {
		return nil, fmt.Errorf("option \"filename\" must not contain a directory: %q", filename)
	}
	return &Plugin{pctx: pctx, filename: filename}, nil
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Description: "Writes a JSON manifest of the bundled modules",
		Hooks:       []string{hooks.AfterEmit},
	}
}

// Apply implements plugin.Plugin.
func (p *Plugin) Apply(h *hooks.Registry) error {
	return h.TapAsync(hooks.AfterEmit, Name, func(ctx context.Context, args ...any) error {
		if len(args) == 0 {
			return fmt.Errorf("afterEmit called without a result")
		}
		res, ok := args[0].(*emit.Result)
		if !ok || res == nil {
			return fmt.Errorf("afterEmit called with %T, want *emit.Result", args[0])
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(filepath.Dir(res.Path), p.filename)
		if err := p.write(path, Build(res, p.pctx.WorkDir)); err != nil {
			return err
		}
		p.pctx.Logger.Debug("Manifest written", logfields.Plugin(Name), logfields.Path(path))
		return nil
	})
}

func (p *Plugin) write(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	// #nosec G306 -- the manifest sits next to a world-readable bundle.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// Build describes res. Module paths are made relative to baseDir when
// possible.
func Build(res *emit.Result, baseDir string) Manifest {
	m := Manifest{
		Bundle:  filepath.Base(res.Path),
		Bytes:   res.Bytes,
		Modules: []Module{},
	}
	if res.Graph == nil {
		return m
	}
	m.Entry = int(res.Graph.EntryID)

	imports := make(map[int][]Import)
	for _, e := range res.Graph.Edges() {
		imports[int(e.From)] = append(imports[int(e.From)], Import{Specifier: e.Specifier, ID: int(e.To)})
	}

	for _, a := range res.Graph.Assets {
		mod := Module{
			ID:      int(a.ID),
			Path:    relPath(baseDir, a.Path),
			Bytes:   len(a.Code),
			Imports: imports[int(a.ID)],
		}
		if mod.Imports == nil {
			mod.Imports = []Import{}
		}
		m.Modules = append(m.Modules, mod)
	}
	return m
}

func relPath(base, p string) string {
	if base == "" || !filepath.IsAbs(p) {
		return filepath.ToSlash(p)
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(absBase, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
