package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructorsSetCategoryAndSeverity(t *testing.T) {
	cases := map[string]struct {
		b        *ErrorBuilder
		category ErrorCategory
		fatal    bool
	}{
		"config":     {ConfigError("x"), CategoryConfig, true},
		"validation": {ValidationError("x"), CategoryValidation, true},
		"not found":  {NotFoundError("x"), CategoryNotFound, true},
		"filesystem": {FileSystemError("x"), CategoryFileSystem, true},
		"loader":     {LoaderError("x"), CategoryLoader, true},
		"parse":      {ParseError("x"), CategoryParse, true},
		"transform":  {TransformError("x"), CategoryTransform, true},
		"resolution": {ResolutionError("x"), CategoryResolution, true},
		"emit":       {EmitError("x"), CategoryEmit, true},
		"hook":       {HookError("x"), CategoryHook, false},
		"plugin":     {PluginError("x"), CategoryPlugin, true},
		"runtime":    {RuntimeError("x"), CategoryRuntime, true},
		"internal":   {InternalError("x"), CategoryInternal, true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.b.Build()
			require.Equal(t, tc.category, err.Category())
			require.Equal(t, tc.fatal, err.IsFatal())
		})
	}
}

func TestErrorStringSortsContextAndAppendsCause(t *testing.T) {
	err := WrapError(fs.ErrNotExist, CategoryResolution, "cannot resolve import").
		WithContext("specifier", "./foo.js").
		WithContext("importer", "/src/main.js").
		Fatal().
		Build()

	require.Equal(t,
		"[resolution:fatal] cannot resolve import (importer=/src/main.js specifier=./foo.js): file does not exist",
		err.Error())
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWarningSeverity(t *testing.T) {
	err := HookError("tap failed").Warning().Build()
	require.Equal(t, SeverityWarning, err.Severity())
	require.Equal(t, "[hook:warning] tap failed", err.Error())
}

func TestBuildSnapshotsContext(t *testing.T) {
	b := LoaderError("loader failed").WithContext("loader", "json")
	first := b.Build()
	b.WithContext("path", "/src/a.json")
	second := b.Build()

	_, ok := first.Context().Get("path")
	require.False(t, ok)
	path, ok := second.Context().GetString("path")
	require.True(t, ok)
	require.Equal(t, "/src/a.json", path)
}

func TestWithContextLeavesOriginalUntouched(t *testing.T) {
	base := EmitError("write failed").Build()
	derived := base.WithContext("path", "dist/bundle.js")

	require.Empty(t, base.Context())
	p, _ := derived.Context().GetString("path")
	require.Equal(t, "dist/bundle.js", p)
	require.ErrorIs(t, derived, base)
}

func TestContextAccessors(t *testing.T) {
	var ctx ErrorContext
	ctx = ctx.Set("rule", 2).Set("loader", "markdown")

	_, ok := ctx.GetString("rule")
	require.False(t, ok, "non-string values are not returned as strings")
	v, ok := ctx.Get("rule")
	require.True(t, ok)
	require.Equal(t, 2, v)
	_, ok = ErrorContext(nil).Get("missing")
	require.False(t, ok)
}

func TestChainHelpers(t *testing.T) {
	inner := ParseError("unexpected token").WithContext("path", "/src/main.js").Build()
	wrapped := fmt.Errorf("resolve asset: %w", inner)

	ce, ok := AsClassified(wrapped)
	require.True(t, ok)
	require.Same(t, inner, ce)
	require.True(t, HasCategory(wrapped, CategoryParse))
	require.False(t, HasCategory(wrapped, CategoryLoader))
	require.Equal(t, CategoryParse, CategoryOf(wrapped))

	plain := errors.New("plain")
	_, ok = AsClassified(plain)
	require.False(t, ok)
	require.False(t, HasCategory(plain, CategoryInternal))
	require.Equal(t, CategoryInternal, CategoryOf(plain))
}
