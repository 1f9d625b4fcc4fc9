package commands

import (
	"fmt"

	"git.home.luguber.info/inful/minipack/internal/loader"
	"git.home.luguber.info/inful/minipack/internal/plugin"
)

// LoadersCmd implements the 'loaders' command.
type LoadersCmd struct{}

func (l *LoadersCmd) Run(g *Global) error {
	out := g.stdout()
	_, _ = fmt.Fprintln(out, "Loaders:")
	for _, name := range loader.Names() {
		_, _ = fmt.Fprintf(out, "  %s\n", name)
	}
	_, _ = fmt.Fprintln(out, "Plugins:")
	for _, name := range plugin.Names() {
		_, _ = fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
