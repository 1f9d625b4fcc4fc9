package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

func TestParseCollectsImportsInSourceOrder(t *testing.T) {
	src := `
import foo from './foo.js';
import { a, b as c } from "../lib/util.js";
import * as ns from './ns.js';
import './polyfill.js';
export { x } from './reexport.js';
export * from './star.js';
export const local = 1;
export default function main() { return import('./lazy.js'); }
const notAnImport = "import './nope.js'";
`
	tree, err := NewJSParser().Parse("/src/main.js", src)
	require.NoError(t, err)
	require.Equal(t, "/src/main.js", tree.Path)
	require.Equal(t, src, tree.Source)
	require.Equal(t, []string{
		"./foo.js",
		"../lib/util.js",
		"./ns.js",
		"./polyfill.js",
		"./reexport.js",
		"./star.js",
	}, tree.Specifiers())

	require.Equal(t, ImportFrom, tree.Imports[0].Kind)
	require.Equal(t, ImportSideEffect, tree.Imports[3].Kind)
	require.Equal(t, ReExport, tree.Imports[4].Kind)
	require.Equal(t, "re-export", tree.Imports[5].Kind.String())
}

func TestParseKeepsDuplicateSpecifiers(t *testing.T) {
	tree, err := NewJSParser().Parse("/a.js", "import a from './x.js';\nimport { b } from './x.js';\n")
	require.NoError(t, err)
	require.Equal(t, []string{"./x.js", "./x.js"}, tree.Specifiers())
}

func TestParseNoImports(t *testing.T) {
	tree, err := NewJSParser().Parse("/a.js", "console.log('hi');")
	require.NoError(t, err)
	require.Empty(t, tree.Imports)
	require.Empty(t, tree.Specifiers())
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := NewJSParser().Parse("/broken.js", "import { from './x.js';\nlet = ;")
	require.Error(t, err)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, errors.CategoryParse, ce.Category())
	path, _ := ce.Context().GetString("path")
	require.Equal(t, "/broken.js", path)
	line, ok := ce.Context().Get("line")
	require.True(t, ok)
	require.Equal(t, 1, line)
	_, ok = ce.Context().Get("column")
	require.True(t, ok)
}
