package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/minipack/internal/asset"
	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/emit"
	mperrors "git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/graph"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/loader"
	"git.home.luguber.info/inful/minipack/internal/logfields"
	"git.home.luguber.info/inful/minipack/internal/metrics"
	"git.home.luguber.info/inful/minipack/internal/observability"
	"git.home.luguber.info/inful/minipack/internal/plugin"
	"git.home.luguber.info/inful/minipack/internal/syntax"
	"git.home.luguber.info/inful/minipack/internal/transpile"
)

// DefaultBuildService is the standard implementation of BuildService.
// It orchestrates the full pipeline: hooks → plugins → graph → bundle.
type DefaultBuildService struct {
	// Optional dependencies that can be injected
	plugins     *plugin.Registry
	extra       []plugin.Plugin
	parser      syntax.Parser
	transformer transpile.Transformer
	renderer    emit.Renderer
	recorder    metrics.Recorder
	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	newID       func() string
}

// NewBuildService creates a new DefaultBuildService using the global plugin
// registry and the default parser, transformer and renderer.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		plugins:  plugin.DefaultRegistry(),
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
}

// WithPluginRegistry sets the registry configured plugins are built from.
func (s *DefaultBuildService) WithPluginRegistry(r *plugin.Registry) *DefaultBuildService {
	if r != nil {
		s.plugins = r
	}
	return s
}

// WithPlugins adds already built plugins. They are applied after the
// configured ones.
func (s *DefaultBuildService) WithPlugins(plugins ...plugin.Plugin) *DefaultBuildService {
	s.extra = append(s.extra, plugins...)
	return s
}

// WithParser replaces the import parser (for testing).
func (s *DefaultBuildService) WithParser(p syntax.Parser) *DefaultBuildService {
	s.parser = p
	return s
}

// WithTransformer replaces the module transformer (for testing).
func (s *DefaultBuildService) WithTransformer(t transpile.Transformer) *DefaultBuildService {
	s.transformer = t
	return s
}

// WithRenderer replaces the bundle renderer.
func (s *DefaultBuildService) WithRenderer(r emit.Renderer) *DefaultBuildService {
	s.renderer = r
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithMetrics records into reg and exposes it to plugins.
func (s *DefaultBuildService) WithMetrics(reg *prometheus.Registry) *DefaultBuildService {
	if reg == nil {
		return s
	}
	s.recorder = metrics.NewPrometheusRecorder(reg)
	s.gatherer = reg
	return s
}

// WithLogger sets the logger handed to plugins.
func (s *DefaultBuildService) WithLogger(l *slog.Logger) *DefaultBuildService {
	s.logger = l
	return s
}

// WithIDFunc replaces build ID generation (for testing).
func (s *DefaultBuildService) WithIDFunc(fn func() string) *DefaultBuildService {
	if fn != nil {
		s.newID = fn
	}
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()

	result := &BuildResult{
		BuildID:   s.newID(),
		StartTime: startTime,
	}

	// Add build context for observability
	ctx = observability.WithBuildID(ctx, result.BuildID)

	cfg := req.Config
	if cfg == nil {
		return s.fail(ctx, result, mperrors.ConfigError("config required").Build())
	}
	if err := cfg.Validate(); err != nil {
		return s.fail(ctx, result, err)
	}
	ctx = observability.WithEntry(ctx, cfg.EntryPath())
	observability.InfoContext(ctx, "Build started", slog.Bool("dry_run", req.Options.DryRun))

	var h *hooks.Registry
	err := s.stage(ctx, StageInitHooks, func(context.Context) error {
		h = hooks.Defaults().WithRecorder(s.recorder)
		return nil
	})
	if err != nil {
		return s.fail(ctx, result, err)
	}

	err = s.stage(ctx, StageApplyPlugins, func(ctx context.Context) error {
		pctx := plugin.Context{Logger: s.logger, WorkDir: cfg.BaseDir, Gatherer: s.gatherer}
		plugins, err := s.plugins.FromConfig(pctx, cfg.Plugins)
		if err != nil {
			return err
		}
		plugins = append(plugins, s.extra...)
		if err := plugin.ApplyAll(plugins, h); err != nil {
			return err
		}
		observability.DebugContext(ctx, "Plugins applied", slog.Int("count", len(plugins)))
		return nil
	})
	if err != nil {
		return s.fail(ctx, result, err)
	}

	err = s.stage(ctx, StageBeforeRun, func(context.Context) error {
		if err := h.MustHook(hooks.BeforeRun).Call(cfg); err != nil {
			return err
		}
		// Taps may have changed the configuration.
		return cfg.Validate()
	})
	if err != nil {
		return s.fail(ctx, result, err)
	}

	var g *graph.Graph
	err = s.stage(ctx, StageResolveGraph, func(ctx context.Context) error {
		builder, err := s.newBuilder(cfg, h)
		if err != nil {
			return err
		}
		g, err = builder.Build(ctx, cfg.EntryPath())
		return err
	})
	if err != nil {
		return s.fail(ctx, result, err)
	}
	result.Graph = g
	result.Assets = g.Len()

	if !req.Options.DryRun {
		var res *emit.Result
		err = s.stage(ctx, StageEmit, func(ctx context.Context) error {
			out := cfg.OutputPath()
			if req.OutputPath != "" {
				out = req.OutputPath
			}
			emitter := emit.NewEmitter().
				WithHooks(h).
				WithRenderer(s.renderer).
				WithRecorder(s.recorder).
				WithBanner(cfg.Output.Banner)
			var err error
			res, err = emitter.Emit(ctx, g, out)
			return err
		})
		if err != nil {
			return s.fail(ctx, result, err)
		}
		result.OutputPath = res.Path
		result.Bytes = res.Bytes

		err = s.stage(ctx, StageAfterEmit, func(ctx context.Context) error {
			return h.MustHook(hooks.AfterEmit).Fire(ctx, res)
		})
		if err != nil {
			return s.fail(ctx, result, err)
		}
	}

	result.Status = BuildStatusSuccess
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	// The outcome is counted only once done has settled it.
	err = s.stage(ctx, StageDone, func(ctx context.Context) error {
		return h.MustHook(hooks.Done).Fire(ctx, result)
	})
	if err != nil {
		return s.fail(ctx, result, err)
	}
	s.recorder.IncBuildOutcome(string(BuildStatusSuccess))
	s.recorder.ObserveBuildDuration(result.Duration)

	observability.InfoContext(ctx, "Build completed",
		logfields.Output(result.OutputPath),
		logfields.Assets(result.Assets),
		logfields.Bytes(result.Bytes),
		logfields.DurationMS(float64(result.Duration.Microseconds())/1000))

	return result, nil
}

func (s *DefaultBuildService) newBuilder(cfg *config.Config, h *hooks.Registry) (*graph.Builder, error) {
	pipeline, err := loader.FromConfig(cfg.Module.Rules)
	if err != nil {
		return nil, err
	}
	policy, err := graph.ParseDedupePolicy(string(cfg.Resolve.Dedupe))
	if err != nil {
		return nil, err
	}
	resolver := asset.NewResolver(pipeline, s.parser, s.transformer)
	return graph.NewBuilder(resolver).
		WithHooks(h).
		WithRecorder(s.recorder).
		WithPolicy(policy).
		WithExtensions(cfg.Resolve.Extensions).
		WithMaxAssets(cfg.Resolve.MaxAssets), nil
}

// stage runs fn with the stage name in the log context and records its
// duration and result.
func (s *DefaultBuildService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx = observability.WithStage(ctx, name)
	observability.DebugContext(ctx, "Stage started")

	err := fn(ctx)
	s.recorder.ObserveStageDuration(name, time.Since(start))
	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
	case isCanceled(err):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
		observability.ErrorContext(ctx, "Stage failed", logfields.Error(err))
	}
	return err
}

func (s *DefaultBuildService) fail(ctx context.Context, result *BuildResult, err error) (*BuildResult, error) {
	result.Status = BuildStatusFailed
	if isCanceled(err) {
		result.Status = BuildStatusCancelled
	}
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.recorder.IncBuildOutcome(string(result.Status))
	s.recorder.ObserveBuildDuration(result.Duration)
	observability.WarnContext(ctx, "Build failed",
		slog.String("status", string(result.Status)),
		logfields.Error(err))
	return result, err
}

func isCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
