// Package asset turns one source file into a bundle-ready module record.
package asset

import (
	"context"
	"os"
	"time"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/loader"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/observability"
	"git.home.luguber.info/inful/minipack/internal/syntax"
	"git.home.luguber.info/inful/minipack/internal/transpile"
)

// ID identifies an asset within one build. IDs start at 1.
type ID int

// Asset is one resolved module.
type Asset struct {
	ID   ID
	Path string
	// Code is the loaded and transformed module body.
	Code string
	// Dependencies are the raw import specifiers in source order.
	Dependencies []string
	// Mapping resolves each specifier to the ID of the asset it points at.
	// It is filled in by the graph builder.
	Mapping map[string]ID
}

// Resolver reads, loads, parses and transforms single files.
type Resolver struct {
	pipeline    *loader.Pipeline
	parser      syntax.Parser
	transformer transpile.Transformer
	readFile    func(string) ([]byte, error)
}

// NewResolver returns a Resolver. A nil pipeline applies no loaders; nil
// parser and transformer select the default adapters.
func NewResolver(pipeline *loader.Pipeline, parser syntax.Parser, transformer transpile.Transformer) *Resolver {
	if parser == nil {
		parser = syntax.NewJSParser()
	}
	if transformer == nil {
		transformer = transpile.NewESBuild()
	}
	return &Resolver{
		pipeline:    pipeline,
		parser:      parser,
		transformer: transformer,
		readFile:    os.ReadFile,
	}
}

// Resolve builds the asset for path. next is called exactly once, after
// every other step has succeeded, to take the asset's ID. The returned
// asset has an empty Mapping.
func (r *Resolver) Resolve(ctx context.Context, path string, next func() ID) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	raw, err := r.readFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read module").
			WithContext("path", path).
			Fatal().
			Build()
	}

	source, err := r.pipeline.Apply(path, string(raw))
	if err != nil {
		return nil, err
	}

	tree, err := r.parser.Parse(path, source)
	if err != nil {
		return nil, err
	}

	code, err := r.transformer.Transform(tree)
	if err != nil {
		return nil, err
	}

	a := &Asset{
		ID:           next(),
		Path:         path,
		Code:         code,
		Dependencies: tree.Specifiers(),
		Mapping:      make(map[string]ID, len(tree.Imports)),
	}

	observability.DebugContext(ctx, "Resolved asset",
		logfields.AssetID(int(a.ID)),
		logfields.Path(path),
		logfields.Assets(len(a.Dependencies)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return a, nil
}

// MappingComplete reports whether every dependency has a mapped ID.
func (a *Asset) MappingComplete() bool {
	for _, d := range a.Dependencies {
		if _, ok := a.Mapping[d]; !ok {
			return false
		}
	}
	return true
}
