package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// FileAssertions checks files under a project directory. Paths are
// slash-separated and relative to the directory. Failures are reported with
// assert, so one call chain can surface several problems.
type FileAssertions struct {
	t    *testing.T
	root string
}

func NewFileAssertions(t *testing.T, root string) *FileAssertions {
	return &FileAssertions{t: t, root: root}
}

func (fa *FileAssertions) abs(rel string) string {
	return filepath.Join(fa.root, filepath.FromSlash(rel))
}

func (fa *FileAssertions) read(rel string) (string, bool) {
	fa.t.Helper()
	data, err := os.ReadFile(fa.abs(rel))
	if !assert.NoError(fa.t, err, "reading %s", rel) {
		return "", false
	}
	return string(data), true
}

func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.FileExists(fa.t, fa.abs(rel))
	return fa
}

func (fa *FileAssertions) AssertFileNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoFileExists(fa.t, fa.abs(rel))
	return fa
}

func (fa *FileAssertions) AssertFileContains(rel, want string) *FileAssertions {
	fa.t.Helper()
	if got, ok := fa.read(rel); ok {
		assert.Contains(fa.t, got, want, "contents of %s", rel)
	}
	return fa
}

func (fa *FileAssertions) AssertFileHasPrefix(rel, prefix string) *FileAssertions {
	fa.t.Helper()
	if got, ok := fa.read(rel); ok {
		assert.Truef(fa.t, len(got) >= len(prefix) && got[:len(prefix)] == prefix,
			"%s should start with %q", rel, prefix)
	}
	return fa
}
