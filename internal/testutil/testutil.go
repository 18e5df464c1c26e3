// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// StubSource is the content written for placeholder C files.
const StubSource = "int x;\n"

// MustMkdirAll creates a directory and all parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// WriteTree writes files (slash-separated paths relative to root) with their
// contents, creating parent directories as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		MustMkdirAll(t, filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// WriteSources creates dir and a stub C file for each name in it.
func WriteSources(t testing.TB, dir string, names ...string) {
	t.Helper()
	MustMkdirAll(t, dir, 0o755)
	files := make(map[string]string, len(names))
	for _, n := range names {
		files[n] = StubSource
	}
	WriteTree(t, dir, files)
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
