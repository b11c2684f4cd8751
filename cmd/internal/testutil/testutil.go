// Package testutil provides helpers for tests that exercise workspace
// directories and external binaries.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Setup creates a temp directory populated with the given files, keyed by
// path relative to the directory root. Parent directories are created as
// needed. The directory is removed when the test finishes.
func Setup(tb testing.TB, files map[string]string) string {
	tb.Helper()

	root := tb.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("creating directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			tb.Fatalf("writing %s: %v", rel, err)
		}
	}

	return root
}

// RequireBinary skips the test when the named binary is not in PATH.
func RequireBinary(tb testing.TB, name string) {
	tb.Helper()

	if _, err := exec.LookPath(name); err != nil {
		tb.Skipf("skipping: %s not in PATH", name)
	}
}
