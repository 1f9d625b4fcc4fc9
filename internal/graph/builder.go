package graph

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/minipack/internal/asset"
	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/metrics"
	"git.home.luguber.info/inful/minipack/internal/observability"
)

// AssetResolver turns one file into an asset.
type AssetResolver interface {
	Resolve(ctx context.Context, path string, next func() asset.ID) (*asset.Asset, error)
}

// Builder walks imports breadth-first from an entry file. It owns the ID
// counter for the graphs it builds; each Build starts again at 1.
type Builder struct {
	resolver   AssetResolver
	hooks      *hooks.Registry
	recorder   metrics.Recorder
	policy     DedupePolicy
	extensions []string
	maxAssets  int
	stat       func(string) (os.FileInfo, error)
	canonical  func(string) (string, error)

	identity asset.ID
}

// NewBuilder returns a Builder using path dedupe and the default extensions.
func NewBuilder(resolver AssetResolver) *Builder {
	return &Builder{
		resolver:   resolver,
		recorder:   metrics.NoopRecorder{},
		policy:     DedupePath,
		extensions: append([]string(nil), config.DefaultExtensions...),
		stat:       os.Stat,
		canonical:  filepath.EvalSymlinks,
	}
}

// WithHooks sets the registry whose assetResolved hook is called per asset.
func (b *Builder) WithHooks(r *hooks.Registry) *Builder {
	b.hooks = r
	return b
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// WithPolicy sets the dedupe policy.
func (b *Builder) WithPolicy(p DedupePolicy) *Builder {
	if p == "" {
		p = DedupePath
	}
	b.policy = p
	return b
}

// WithExtensions sets the probe extensions, in order.
func (b *Builder) WithExtensions(exts []string) *Builder {
	b.extensions = append([]string(nil), exts...)
	return b
}

// WithMaxAssets fails the build once more than n assets would be created.
// Zero means no limit.
func (b *Builder) WithMaxAssets(n int) *Builder {
	b.maxAssets = n
	return b
}

func (b *Builder) next() asset.ID {
	b.identity++
	return b.identity
}

// Build resolves entry and every module reachable from it.
func (b *Builder) Build(ctx context.Context, entry string) (*Graph, error) {
	b.identity = 0
	entryPath, err := filepath.Abs(entry)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryResolution, "invalid entry path").
			WithContext("path", entry).
			Fatal().
			Build()
	}
	if !b.isFile(entryPath) {
		return nil, errors.ResolutionError("entry module not found").
			WithContext("path", entryPath).
			Build()
	}
	if entryPath, err = b.realPath(entryPath); err != nil {
		return nil, err
	}

	root, err := b.resolveAsset(ctx, entryPath)
	if err != nil {
		return nil, err
	}

	byPath := map[string]*asset.Asset{entryPath: root}
	out := []*asset.Asset{root}
	queue := []*asset.Asset{root}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, interrupted(err, len(out))
		}
		head := queue[0]
		queue = queue[1:]

		for _, spec := range head.Dependencies {
			childPath, err := b.resolveSpecifier(head.Path, spec)
			if err != nil {
				return nil, err
			}

			if b.policy != DedupeNone {
				if existing, ok := byPath[childPath]; ok {
					head.Mapping[spec] = existing.ID
					continue
				}
			}

			if b.maxAssets > 0 && len(out) >= b.maxAssets {
				return nil, errors.ResolutionError("asset limit exceeded").
					WithContext("max_assets", b.maxAssets).
					WithContext("specifier", spec).
					WithContext("importer", head.Path).
					Build()
			}

			child, err := b.resolveAsset(ctx, childPath)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, interrupted(ctxErr, len(out))
				}
				return nil, err
			}
			head.Mapping[spec] = child.ID
			byPath[childPath] = child
			queue = append(queue, child)
			out = append(out, child)
		}
	}

	g := &Graph{Assets: out, EntryID: root.ID}
	if b.policy == DedupeReject {
		if err := rejectCycles(g); err != nil {
			return nil, err
		}
	}

	observability.InfoContext(ctx, "Dependency graph resolved",
		logfields.Assets(len(out)))
	return g, nil
}

func (b *Builder) resolveAsset(ctx context.Context, path string) (*asset.Asset, error) {
	start := time.Now()
	a, err := b.resolver.Resolve(ctx, path, b.next)
	if err != nil {
		return nil, err
	}
	b.recorder.ObserveResolveDuration(time.Since(start))
	b.recorder.IncAssetsResolved()
	if b.hooks != nil {
		if h, ok := b.hooks.Hook(hooks.AssetResolved); ok {
			if err := h.Call(a); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

func interrupted(err error, resolved int) error {
	return errors.WrapError(err, errors.CategoryRuntime, "dependency graph build interrupted").
		WithContext("assets", resolved).
		Fatal().
		Build()
}
