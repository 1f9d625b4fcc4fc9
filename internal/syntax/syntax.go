// Package syntax parses module source and reports its static imports.
package syntax

import (
	stderrors "errors"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// ImportKind distinguishes the statement forms that introduce a dependency.
type ImportKind int

const (
	// ImportFrom is `import x from "spec"` and its named/namespace variants.
	ImportFrom ImportKind = iota
	// ImportSideEffect is a bare `import "spec"`.
	ImportSideEffect
	// ReExport is `export ... from "spec"`.
	ReExport
)

func (k ImportKind) String() string {
	switch k {
	case ImportFrom:
		return "import"
	case ImportSideEffect:
		return "side-effect"
	case ReExport:
		return "re-export"
	default:
		return "unknown"
	}
}

// Import is one static dependency in source order.
type Import struct {
	Specifier string
	Kind      ImportKind
}

// Tree is a parsed module. Source is the text that was parsed.
type Tree struct {
	Path    string
	Source  string
	Imports []Import
}

// Specifiers returns the raw import specifiers in source order. Repeated
// specifiers are kept.
func (t *Tree) Specifiers() []string {
	out := make([]string, 0, len(t.Imports))
	for _, imp := range t.Imports {
		out = append(out, imp.Specifier)
	}
	return out
}

// Parser turns module source into a Tree.
type Parser interface {
	Parse(path, source string) (*Tree, error)
}

// JSParser parses ECMAScript modules with tdewolff/parse.
type JSParser struct{}

// NewJSParser returns the default Parser.
func NewJSParser() *JSParser { return &JSParser{} }

// Parse implements Parser.
func (JSParser) Parse(path, source string) (*Tree, error) {
	ast, err := js.Parse(parse.NewInputString(source), js.Options{})
	if err != nil {
		b := errors.ParseError("syntax error").WithCause(err).WithContext("path", path)
		var perr *parse.Error
		if stderrors.As(err, &perr) {
			b = errors.ParseError(perr.Message).
				WithCause(err).
				WithContext("path", path).
				WithContext("line", perr.Line).
				WithContext("column", perr.Column)
		}
		return nil, b.Build()
	}

	tree := &Tree{Path: path, Source: source}
	for _, stmt := range ast.List {
		switch s := stmt.(type) {
		case *js.ImportStmt:
			if len(s.Module) == 0 {
				continue
			}
			kind := ImportFrom
			if s.Default == nil && len(s.List) == 0 {
				kind = ImportSideEffect
			}
			tree.Imports = append(tree.Imports, Import{Specifier: unquote(s.Module), Kind: kind})
		case *js.ExportStmt:
			if len(s.Module) == 0 {
				continue
			}
			tree.Imports = append(tree.Imports, Import{Specifier: unquote(s.Module), Kind: ReExport})
		}
	}
	return tree, nil
}

// unquote strips the surrounding quotes of a string literal token.
func unquote(b []byte) string {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		return string(b[1 : len(b)-1])
	}
	return string(b)
}
