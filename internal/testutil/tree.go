package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree writes files, keyed by slash separated relative path, under a
// fresh temp dir and returns the dir.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	AddFiles(t, dir, files)
	return dir
}

// AddFiles writes files under dir, creating parent directories.
func AddFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), testDirPermissions); err != nil {
			t.Fatalf("create %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(body), testFilePermissions); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}
