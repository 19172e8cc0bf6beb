package testutil

import (
	"testing"

	"github.com/entangled/entangled-go/internal/config"
)

func TestNewTempProjectWritesNestedFiles(t *testing.T) {
	root := NewTempProject(t, map[string]string{
		"README.md":       "# hello\n",
		"src/util/lib.py": "print(1)\n",
	})

	if got := ReadProjectFile(t, root, "README.md"); got != "# hello\n" {
		t.Fatalf("README.md = %q", got)
	}
	if got := ReadProjectFile(t, root, "src/util/lib.py"); got != "print(1)\n" {
		t.Fatalf("src/util/lib.py = %q", got)
	}
}

func TestFixtureConfigMatchesDefault(t *testing.T) {
	if got := FixtureConfig(); got.Annotation != config.STANDARD {
		t.Fatalf("FixtureConfig().Annotation = %v, want STANDARD", got.Annotation)
	}
}

func TestFixtureReferenceMapStartsEmpty(t *testing.T) {
	if rm := FixtureReferenceMap(); rm.Len() != 0 {
		t.Fatalf("FixtureReferenceMap().Len() = %d, want 0", rm.Len())
	}
}
