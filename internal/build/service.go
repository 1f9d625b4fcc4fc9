package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/graph"
)

// BuildService runs one bundle build per call.
type BuildService interface {
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest is the input of a single Run.
type BuildRequest struct {
	// Config may be modified by beforeRun taps. It is validated again afterwards.
	Config *config.Config

	// OutputPath replaces Config.Output.Path as the default bundle path.
	// emitOutputPath taps still get the last word.
	OutputPath string

	Options BuildOptions
}

type BuildOptions struct {
	// DryRun stops after the graph is resolved. Nothing is written and
	// afterEmit never fires; done still does.
	DryRun bool
}

// BuildResult describes a finished build, successful or not.
type BuildResult struct {
	BuildID    string
	Status     BuildStatus
	OutputPath string // final path after emitOutputPath taps; empty on dry runs
	Assets     int
	Bytes      int
	Graph      *graph.Graph

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

func (s BuildStatus) IsSuccess() bool { return s == BuildStatusSuccess }

// Stage names as they appear in logs and the stage metrics.
const (
	StageInitHooks    = "init_hooks"
	StageApplyPlugins = "apply_plugins"
	StageBeforeRun    = "before_run"
	StageResolveGraph = "resolve_graph"
	StageEmit         = "emit"
	StageAfterEmit    = "after_emit"
	StageDone         = "done"
)

// Stages is the execution order of a full, non-dry build.
var Stages = []string{
	StageInitHooks,
	StageApplyPlugins,
	StageBeforeRun,
	StageResolveGraph,
	StageEmit,
	StageAfterEmit,
	StageDone,
}
