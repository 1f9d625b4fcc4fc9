package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/emit"
	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/hooks"
	"git.home.luguber.info/inful/minipack/internal/metrics"
	"git.home.luguber.info/inful/minipack/internal/plugin"
	_ "git.home.luguber.info/inful/minipack/internal/plugin/builtin"
	"git.home.luguber.info/inful/minipack/internal/testutil"
)

// writeProject lays out files under a temp dir and returns a config
// anchored there with entry src/main.js.
func writeProject(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	dir := testutil.WriteTree(t, files)
	cfg := config.Default()
	cfg.BaseDir = dir
	cfg.Entry = "./src/main.js"
	cfg.Module.Rules = []config.RuleConfig{{Test: `\.json$`, Use: []string{"json"}}}
	return cfg
}

var sampleProject = map[string]string{
	"src/main.js": "import message from './foo.js';\nconsole.log('main start');\nconsole.log(message);\n",
	"src/foo.js":  "import info from './info.json';\nconsole.log('foo loaded');\nexport default 'hello ' + info.name;\n",
	"src/info.json": "{\n  \"name\": \"mengxixi\"\n}\n",
}

// newConsoleVM returns a runtime whose console.log appends to lines.
func newConsoleVM(t *testing.T) (*goja.Runtime, *[]string) {
	t.Helper()
	vm := goja.New()
	lines := &[]string{}
	console := vm.NewObject()
	require.NoError(t, console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			parts = append(parts, a.String())
		}
		*lines = append(*lines, strings.Join(parts, " "))
		return goja.Undefined()
	}))
	require.NoError(t, vm.Set("console", console))
	return vm, lines
}

func runBundle(t *testing.T, path string) []string {
	t.Helper()
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	vm, lines := newConsoleVM(t)
	_, err = vm.RunString(string(src))
	require.NoError(t, err)
	return *lines
}

// runUnbundled executes entry module by module, resolving relative
// requires against the file system.
func runUnbundled(t *testing.T, entry string) []string {
	t.Helper()
	vm, lines := newConsoleVM(t)
	cache := map[string]*goja.Object{}

	var load func(path string) goja.Value
	load = func(path string) goja.Value {
		if m, ok := cache[path]; ok {
			return m.Get("exports")
		}
		src, err := os.ReadFile(path)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		module := vm.NewObject()
		exports := vm.NewObject()
		_ = module.Set("exports", exports)
		cache[path] = module

		if strings.HasSuffix(path, ".json") {
			v, err := vm.RunString("(" + string(src) + ")")
			if err != nil {
				panic(vm.NewGoError(err))
			}
			_ = module.Set("exports", v)
			return v
		}

		res := api.Transform(string(src), api.TransformOptions{
			Loader:     api.LoaderJS,
			Format:     api.FormatCommonJS,
			Sourcefile: path,
		})
		if len(res.Errors) > 0 {
			panic(vm.NewGoError(os.ErrInvalid))
		}
		fnVal, err := vm.RunString("(function (require, module, exports) {\n" + string(res.Code) + "\n})")
		if err != nil {
			panic(vm.NewGoError(err))
		}
		fn, ok := goja.AssertFunction(fnVal)
		if !ok {
			panic(vm.NewTypeError("module wrapper is not a function"))
		}
		req := func(call goja.FunctionCall) goja.Value {
			return load(filepath.Join(filepath.Dir(path), call.Argument(0).String()))
		}
		if _, err := fn(goja.Undefined(), vm.ToValue(req), module, exports); err != nil {
			panic(err)
		}
		return module.Get("exports")
	}

	require.NotPanics(t, func() { load(entry) })
	return *lines
}

func TestBuildStatusIsSuccess(t *testing.T) {
	require.True(t, BuildStatusSuccess.IsSuccess())
	require.False(t, BuildStatusFailed.IsSuccess())
	require.False(t, BuildStatusCancelled.IsSuccess())
}

func TestNewBuildService(t *testing.T) {
	svc := NewBuildService()
	if svc == nil {
		t.Fatal("NewBuildService() returned nil")
	}
	if svc.plugins == nil {
		t.Error("plugins should be set")
	}
	if svc.newID == nil {
		t.Error("newID should be set")
	}
}

func TestDefaultBuildService_Run_NilConfig(t *testing.T) {
	result, err := NewBuildService().Run(context.Background(), BuildRequest{})

	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.Equal(t, BuildStatusFailed, result.Status)
	require.NotEmpty(t, result.BuildID)
}

func TestDefaultBuildService_Run_InvalidConfig(t *testing.T) {
	cfg := config.Default() // no entry

	result, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg})
	require.Error(t, err)
	require.Equal(t, BuildStatusFailed, result.Status)
}

func TestDefaultBuildService_Run_BundleMatchesUnbundled(t *testing.T) {
	cfg := writeProject(t, sampleProject)

	result, err := NewBuildService().WithIDFunc(func() string { return "b-1" }).
		Run(context.Background(), BuildRequest{Config: cfg})
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, result.Status)
	require.Equal(t, "b-1", result.BuildID)
	require.Equal(t, 3, result.Assets)
	require.Equal(t, filepath.Join(cfg.BaseDir, "dist", "bundle.js"), result.OutputPath)
	require.Positive(t, result.Bytes)

	want := runUnbundled(t, filepath.Join(cfg.BaseDir, "src", "main.js"))
	require.Equal(t, []string{"foo loaded", "main start", "hello mengxixi"}, want)
	require.Equal(t, want, runBundle(t, result.OutputPath))
}

func TestDefaultBuildService_Run_NoDependencies(t *testing.T) {
	cfg := writeProject(t, map[string]string{"src/main.js": "console.log('alone');\n"})

	result, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg})
	require.NoError(t, err)
	require.Equal(t, 1, result.Graph.Len())
	require.Empty(t, result.Graph.Entry().Mapping)

	b, err := emit.NewBundle(result.Graph, "")
	require.NoError(t, err)
	require.Len(t, b.Records, 1)
	require.Equal(t, "{}", b.Records[0].Mapping)

	require.Equal(t, []string{"alone"}, runBundle(t, result.OutputPath))
}

func TestDefaultBuildService_Run_RequestOutputPath(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	out := filepath.Join(cfg.BaseDir, "custom", "out.js")

	result, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg, OutputPath: out})
	require.NoError(t, err)
	require.Equal(t, out, result.OutputPath)
	_, err = os.Stat(filepath.Join(cfg.BaseDir, "dist", "bundle.js"))
	require.True(t, os.IsNotExist(err))
}

func TestDefaultBuildService_Run_DryRun(t *testing.T) {
	cfg := writeProject(t, sampleProject)

	var afterEmit bool
	watcher := &tapPlugin{name: "watcher", apply: func(h *hooks.Registry) error {
		return h.TapAsync(hooks.AfterEmit, "watcher", func(context.Context, ...any) error {
			afterEmit = true
			return nil
		})
	}}

	result, err := NewBuildService().WithPlugins(watcher).
		Run(context.Background(), BuildRequest{Config: cfg, Options: BuildOptions{DryRun: true}})
	require.NoError(t, err)
	require.Equal(t, 3, result.Graph.Len())
	require.Empty(t, result.OutputPath)
	require.False(t, afterEmit)

	_, err = os.Stat(cfg.OutputPath())
	require.True(t, os.IsNotExist(err))
}

func TestDefaultBuildService_Run_ConfiguredPlugins(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	cfg.Plugins = []config.PluginConfig{
		{Name: "banner", Options: map[string]any{"text": "minipack test"}},
		{Name: "outputpath", Options: map[string]any{"path": "./dist/mengxixi.js"}},
		{Name: "manifest"},
	}

	result, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(cfg.BaseDir, "dist", "mengxixi.js"), result.OutputPath)
	require.Equal(t, "minipack test", cfg.Output.Banner, "beforeRun taps modify the request config")

	testutil.NewFileAssertions(t, cfg.BaseDir).
		AssertFileNotExists("dist/bundle.js").
		AssertFileHasPrefix("dist/mengxixi.js", "/*! minipack test */").
		AssertFileContains("dist/manifest.json", `"path": "src/info.json"`)
}

func TestDefaultBuildService_Run_UnknownPlugin(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	cfg.Plugins = []config.PluginConfig{{Name: "ghost"}}

	result, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryPlugin))
	require.Equal(t, BuildStatusFailed, result.Status)
}

func TestDefaultBuildService_Run_AfterEmitFailure(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	failing := &tapPlugin{name: "failing", apply: func(h *hooks.Registry) error {
		return h.TapAsync(hooks.AfterEmit, "failing", func(context.Context, ...any) error {
			return os.ErrPermission
		})
	}}

	result, err := NewBuildService().WithPlugins(failing).Run(context.Background(), BuildRequest{Config: cfg})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryHook))
	require.ErrorIs(t, err, os.ErrPermission)
	require.Equal(t, BuildStatusFailed, result.Status)
}

func TestDefaultBuildService_Run_DoneSeesResult(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	var seen *BuildResult
	observer := &tapPlugin{name: "observer", apply: func(h *hooks.Registry) error {
		return h.TapAsync(hooks.Done, "observer", func(_ context.Context, args ...any) error {
			seen = args[0].(*BuildResult)
			return nil
		})
	}}

	result, err := NewBuildService().WithPlugins(observer).Run(context.Background(), BuildRequest{Config: cfg})
	require.NoError(t, err)
	require.Same(t, result, seen)
	require.Equal(t, BuildStatusSuccess, seen.Status)
}

func TestDefaultBuildService_Run_ResolutionFailure(t *testing.T) {
	cfg := writeProject(t, map[string]string{"src/main.js": "import x from './missing.js';\n"})

	result, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryResolution))
	require.Equal(t, BuildStatusFailed, result.Status)
}

func TestDefaultBuildService_Run_CycleWithNoneDedupeIsCancelled(t *testing.T) {
	cfg := writeProject(t, map[string]string{
		"src/main.js": "import './b.js';\n",
		"src/b.js":    "import './main.js';\n",
	})
	cfg.Resolve.Dedupe = config.DedupeNone

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	result, err := NewBuildService().Run(ctx, BuildRequest{Config: cfg})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, BuildStatusCancelled, result.Status)
}

type stageRecorder struct {
	metrics.NoopRecorder
	stages   []string
	outcomes []string
}

func (r *stageRecorder) IncStageResult(stage string, _ metrics.ResultLabel) {
	r.stages = append(r.stages, stage)
}

func (r *stageRecorder) IncBuildOutcome(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestDefaultBuildService_Run_StagesInOrder(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	rec := &stageRecorder{}

	_, err := NewBuildService().WithRecorder(rec).Run(context.Background(), BuildRequest{Config: cfg})
	require.NoError(t, err)
	require.Equal(t, Stages, rec.stages)
	require.Equal(t, []string{"success"}, rec.outcomes)
}

func TestDefaultBuildService_Run_PrometheusMetrics(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	reg := prometheus.NewRegistry()
	metricsPath := filepath.Join(cfg.BaseDir, "metrics", "minipack.prom")
	cfg.Plugins = []config.PluginConfig{{Name: "metrics", Options: map[string]any{"path": metricsPath}}}

	_, err := NewBuildService().WithMetrics(reg).Run(context.Background(), BuildRequest{Config: cfg})
	require.NoError(t, err)

	count, err := promtestutil.GatherAndCount(reg, "minipack_assets_resolved_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "minipack_assets_resolved_total 3")
	require.Contains(t, string(data), `minipack_stage_results_total{result="success",stage="after_emit"} 1`)

	require.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(`
# HELP minipack_build_outcomes_total Finished builds by status.
# TYPE minipack_build_outcomes_total counter
minipack_build_outcomes_total{outcome="success"} 1
`), "minipack_build_outcomes_total"))
}

func TestDefaultBuildService_Run_FailingDoneCountsAsFailed(t *testing.T) {
	cfg := writeProject(t, sampleProject)
	rec := &stageRecorder{}
	broken := &tapPlugin{name: "broken", apply: func(h *hooks.Registry) error {
		return h.TapAsync(hooks.Done, "broken", func(context.Context, ...any) error {
			return os.ErrPermission
		})
	}}

	result, err := NewBuildService().WithRecorder(rec).WithPlugins(broken).
		Run(context.Background(), BuildRequest{Config: cfg})
	require.ErrorIs(t, err, os.ErrPermission)
	require.Equal(t, BuildStatusFailed, result.Status)
	require.Equal(t, []string{"failed"}, rec.outcomes)
}

// tapPlugin applies an arbitrary function.
type tapPlugin struct {
	name  string
	apply func(*hooks.Registry) error
}

func (p *tapPlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{Name: p.name, Version: "v0.0.0"}
}

func (p *tapPlugin) Apply(h *hooks.Registry) error { return p.apply(h) }
