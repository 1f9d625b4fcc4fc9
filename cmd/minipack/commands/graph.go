package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/minipack/internal/graph"
)

// GraphCmd implements the 'graph' command.
type GraphCmd struct {
	Format string `short:"f" help:"Output format: text, mermaid, dot, json" default:"text" enum:"text,mermaid,dot,json"`
	Output string `short:"o" help:"Output file path (optional, prints to stdout if not specified)"`
}

// Run executes the graph command.
func (cmd *GraphCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	result, err := RunBuild(context.Background(), g, cfg, "", true)
	if err != nil {
		return err
	}

	output, err := graph.Visualize(result.Graph, graph.VisualizationFormat(cmd.Format), cfg.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to visualize graph: %w", err)
	}

	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		g.Logger.Info("Module graph written", "file", cmd.Output, "format", cmd.Format)
		return nil
	}
	_, _ = fmt.Fprint(g.stdout(), output)
	return nil
}
