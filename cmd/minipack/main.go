package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/minipack/cmd/minipack/commands"
	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("minipack"),
		kong.Description("Bundle an ES module graph into a single script."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	globals := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout, Stderr: os.Stderr}
	if err := parser.Run(globals, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, globals.Logger).HandleError(err)
	}
}
