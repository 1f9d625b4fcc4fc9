package asset

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
	"git.home.luguber.info/inful/minipack/internal/loader"
	"git.home.luguber.info/inful/minipack/internal/syntax"
)

func counter() func() ID {
	var n ID
	return func() ID { n++; return n }
}

func writeModule(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestResolveProducesAssetWithDependencies(t *testing.T) {
	dir := t.TempDir()
	p := writeModule(t, dir, "main.js", "import foo from './foo.js';\nimport './side.js';\nconsole.log(foo);\n")

	a, err := NewResolver(nil, nil, nil).Resolve(context.Background(), p, counter())
	require.NoError(t, err)
	require.Equal(t, ID(1), a.ID)
	require.Equal(t, p, a.Path)
	require.Equal(t, []string{"./foo.js", "./side.js"}, a.Dependencies)
	require.Empty(t, a.Mapping)
	require.False(t, a.MappingComplete())
	require.Contains(t, a.Code, `require("./foo.js")`)
}

func TestResolveRunsLoadersBeforeParsing(t *testing.T) {
	dir := t.TempDir()
	p := writeModule(t, dir, "info.json", `{"name": "mengxixi"}`)
	jsonLoader, err := loader.Lookup("json")
	require.NoError(t, err)
	pipeline := loader.NewPipeline(loader.Rule{Test: regexp.MustCompile(`\.json$`), Use: []loader.Transform{jsonLoader}})

	a, err := NewResolver(pipeline, nil, nil).Resolve(context.Background(), p, counter())
	require.NoError(t, err)
	require.Empty(t, a.Dependencies)
	require.Contains(t, a.Code, "mengxixi")
}

func TestResolveMissingFileIsFileSystemError(t *testing.T) {
	calls := 0
	next := func() ID { calls++; return ID(calls) }

	_, err := NewResolver(nil, nil, nil).Resolve(context.Background(), filepath.Join(t.TempDir(), "gone.js"), next)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	require.Contains(t, err.Error(), "gone.js")
	require.Zero(t, calls, "no ID is consumed when resolution fails")
}

type failingParser struct{}

func (failingParser) Parse(path, _ string) (*syntax.Tree, error) {
	return nil, errors.ParseError("unexpected token").WithContext("path", path).Build()
}

func TestResolvePropagatesParseErrors(t *testing.T) {
	p := writeModule(t, t.TempDir(), "a.js", "whatever")
	calls := 0

	_, err := NewResolver(nil, failingParser{}, nil).Resolve(context.Background(), p, func() ID { calls++; return 1 })
	require.True(t, errors.HasCategory(err, errors.CategoryParse))
	require.Zero(t, calls)
}

func TestResolveHonorsCanceledContext(t *testing.T) {
	p := writeModule(t, t.TempDir(), "a.js", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(nil, nil, nil).Resolve(ctx, p, counter())
	require.True(t, stderrors.Is(err, context.Canceled))
}

func TestMappingComplete(t *testing.T) {
	a := &Asset{Dependencies: []string{"./a.js", "./b.js"}, Mapping: map[string]ID{"./a.js": 2}}
	require.False(t, a.MappingComplete())
	a.Mapping["./b.js"] = 3
	require.True(t, a.MappingComplete())
	require.True(t, (&Asset{}).MappingComplete())
}
