// Package transpile lowers parsed ES modules into code the bundle runtime
// can execute: CommonJS bodies calling require, module and exports.
package transpile

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/syntax"
)

// Transformer produces executable module code from a parsed tree.
type Transformer interface {
	Transform(tree *syntax.Tree) (string, error)
}

// ESBuild converts ESM to CommonJS with esbuild's transform API.
type ESBuild struct {
	Target api.Target
}

// NewESBuild returns the default Transformer targeting ES2015.
func NewESBuild() *ESBuild {
	return &ESBuild{Target: api.ES2015}
}

// Transform implements Transformer.
func (e *ESBuild) Transform(tree *syntax.Tree) (string, error) {
	result := api.Transform(tree.Source, api.TransformOptions{
		Loader:     api.LoaderJS,
		Format:     api.FormatCommonJS,
		Target:     e.Target,
		Sourcefile: tree.Path,
	})
	if len(result.Errors) > 0 {
		first := result.Errors[0]
		b := errors.TransformError(first.Text).
			WithContext("path", tree.Path).
			WithContext("errors", len(result.Errors))
		if loc := first.Location; loc != nil {
			b = b.WithContext("line", loc.Line).WithContext("column", loc.Column)
		}
		if len(result.Errors) > 1 {
			b = b.WithCause(joinMessages(result.Errors[1:]))
		}
		return "", b.Build()
	}
	return string(result.Code), nil
}

type messages []string

func (m messages) Error() string { return strings.Join(m, "; ") }

func joinMessages(msgs []api.Message) error {
	out := make(messages, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}
