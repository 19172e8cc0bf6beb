// Package testutil provides fixture builders shared across this module's
// test suites: a default Config, an empty ReferenceMap, and a throwaway
// project directory populated with Markdown/code files.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

// FixtureConfig returns the baseline Config tests build from, overriding
// individual fields as each test needs.
func FixtureConfig() config.Config {
	return config.Default()
}

// FixtureReferenceMap returns an empty ReferenceMap ready for a test to
// register blocks into directly, bypassing mdreader.Read.
func FixtureReferenceMap() *refs.ReferenceMap {
	return refs.New()
}

// NewTempProject creates a temp directory (auto-removed at test end) and
// writes files into it, keyed by their project-relative path. It returns
// the directory root.
func NewTempProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if dir := filepath.Dir(path); dir != root {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				t.Fatalf("testutil: MkdirAll(%s) failed: %v", dir, err)
			}
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("testutil: WriteFile(%s) failed: %v", path, err)
		}
	}
	return root
}

// ReadProjectFile reads name back from root, failing the test on any error.
func ReadProjectFile(t *testing.T, root, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		t.Fatalf("testutil: ReadFile(%s) failed: %v", name, err)
	}
	return string(content)
}
