// Package commands implements the minipack command line.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/minipack/internal/config"
	"git.home.luguber.info/inful/minipack/internal/observability"

	// Built-in plugins register themselves.
	_ "git.home.luguber.info/inful/minipack/internal/plugin/builtin"
)

// Global is shared state passed to every command.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (.yaml, .yml or .toml)" default:"minipack.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Bundle the entry module and everything it imports"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Graph   GraphCmd   `cmd:"" help:"Resolve and print the module graph without writing a bundle"`
	Loaders LoadersCmd `cmd:"" help:"List built-in loaders and plugins"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := "info"
	if c.Verbose {
		level = "debug"
	}
	slog.SetDefault(observability.NewLogger(level, "text", os.Stderr))
	return nil
}

// loadConfig loads the configuration file and switches logging to what it
// asks for. -v always wins over the configured level.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	level := string(cfg.Logging.Level)
	if c.Verbose {
		level = "debug"
	}
	g.Logger = observability.NewLogger(level, string(cfg.Logging.Format), g.stderr())
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// absPath anchors a command line path at the working directory.
func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}
