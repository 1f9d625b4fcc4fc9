// Package emit renders a dependency graph into a single self-executing
// bundle and writes it to disk.
package emit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/graph"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/metrics"
	"git.home.luguber.info/inful/minipack/internal/observability"
)

// Result describes a written bundle.
type Result struct {
	// Path is the absolute path the bundle was written to.
	Path  string
	Bytes int
	Graph *graph.Graph
}

// Emitter writes bundles.
type Emitter struct {
	hooks    *hooks.Registry
	renderer Renderer
	recorder metrics.Recorder
	banner   string
}

// NewEmitter returns an Emitter using the embedded runtime and no hooks.
func NewEmitter() *Emitter {
	return &Emitter{
		renderer: DefaultRenderer(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithHooks sets the registry whose emitOutputPath hook is fired.
func (e *Emitter) WithHooks(h *hooks.Registry) *Emitter {
	e.hooks = h
	return e
}

// WithRenderer replaces the bundle renderer.
func (e *Emitter) WithRenderer(r Renderer) *Emitter {
	if r != nil {
		e.renderer = r
	}
	return e
}

// WithRecorder sets the metrics recorder.
func (e *Emitter) WithRecorder(rec metrics.Recorder) *Emitter {
	if rec != nil {
		e.recorder = rec
	}
	return e
}

// WithBanner sets the leading comment of the bundle.
func (e *Emitter) WithBanner(banner string) *Emitter {
	e.banner = banner
	return e
}

// Render returns the bundle for g without writing it.
func (e *Emitter) Render(g *graph.Graph) ([]byte, error) {
	b, err := NewBundle(g, e.banner)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.renderer.Render(&buf, b); err != nil {
		return nil, errors.WrapError(err, errors.CategoryEmit, "failed to render bundle").Fatal().Build()
	}
	return buf.Bytes(), nil
}

// Emit renders g, lets emitOutputPath taps move the destination away from
// defaultPath, and writes the bundle, replacing any existing file.
func (e *Emitter) Emit(ctx context.Context, g *graph.Graph, defaultPath string) (*Result, error) {
	if g == nil || g.Len() == 0 {
		return nil, errors.InternalError("cannot emit an empty graph").Build()
	}

	data, err := e.Render(g)
	if err != nil {
		return nil, err
	}

	target := NewOutputTarget(ctx, defaultPath)
	if e.hooks != nil {
		if h, ok := e.hooks.Hook(hooks.EmitOutputPath); ok {
			if err := h.Call(target); err != nil {
				return nil, err
			}
		}
	}

	path, err := filepath.Abs(target.Path())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEmit, "invalid output path").
			WithContext("path", target.Path()).
			Fatal().
			Build()
	}

	if err := writeFile(path, data); err != nil {
		return nil, err
	}

	e.recorder.ObserveBundleBytes(len(data))
	observability.InfoContext(ctx, "Bundle written",
		logfields.Output(path),
		logfields.Bytes(len(data)),
		logfields.Assets(g.Len()))

	return &Result{Path: path, Bytes: len(data), Graph: g}, nil
}

// writeFile writes data next to path and renames it into place.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return emitError(err, "failed to create output directory", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return emitError(err, "failed to create bundle file", path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return emitError(err, "failed to write bundle", path)
	}
	if err := tmp.Close(); err != nil {
		return emitError(err, "failed to write bundle", path)
	}
	// #nosec G302 -- bundles are meant to be read by other tools.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return emitError(err, "failed to write bundle", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return emitError(err, "failed to replace bundle", path)
	}
	return nil
}

func emitError(err error, msg, path string) error {
	return errors.WrapError(err, errors.CategoryEmit, msg).
		WithContext("path", path).
		Fatal().
		Build()
}
