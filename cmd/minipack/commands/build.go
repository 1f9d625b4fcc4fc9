package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/minipack/internal/build"
	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/plugin/metricsfile"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Bundle path (overrides output.path)"`
	Entry       string `help:"Entry module (overrides entry)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the build"`
	DryRun      bool   `name:"dry-run" help:"Resolve the graph without writing the bundle"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if err := b.apply(cfg); err != nil {
		return err
	}
	output, err := absPath(b.Output)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := RunBuild(ctx, g, cfg, output, b.DryRun)
	if err != nil {
		return err
	}

	if b.DryRun {
		_, _ = fmt.Fprintf(g.stdout(), "Resolved %d modules\n", result.Assets)
		return nil
	}
	_, _ = fmt.Fprintf(g.stdout(), "Bundled %d modules into %s (%d bytes)\n", result.Assets, result.OutputPath, result.Bytes)
	return nil
}

// apply folds command line overrides into cfg.
func (b *BuildCmd) apply(cfg *config.Config) error {
	if b.Entry != "" {
		entry, err := absPath(b.Entry)
		if err != nil {
			return err
		}
		cfg.Entry = entry
	}
	if b.MetricsFile != "" {
		path, err := absPath(b.MetricsFile)
		if err != nil {
			return err
		}
		cfg.Plugins = append(cfg.Plugins, config.PluginConfig{
			Name:    metricsfile.Name,
			Options: map[string]any{"path": path},
		})
	}
	return nil
}

// RunBuild runs one build with a fresh metrics registry.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config, output string, dryRun bool) (*build.BuildResult, error) {
	svc := build.NewBuildService().
		WithMetrics(prometheus.NewRegistry()).
		WithLogger(g.Logger)

	return svc.Run(ctx, build.BuildRequest{
		Config:     cfg,
		OutputPath: output,
		Options:    build.BuildOptions{DryRun: dryRun},
	})
}
