package txn

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entangled/entangled-go/internal/filedb"
)

func setupRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".entangled"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestCreateNewTargetHasNoConflict(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	db := filedb.New()

	tx := New(db, root, Force)
	if err := tx.WriteTarget(filepath.Join(root, "hello.py"), "print('hi')\n", []string{"input.md"}, nil); err != nil {
		t.Fatal(err)
	}
	report, err := tx.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if report.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", report.Conflicts)
	}

	content, err := os.ReadFile(filepath.Join(root, "hello.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "print('hi')\n" {
		t.Fatalf("content = %q", content)
	}
	if !db.IsTarget(filepath.Join(root, "hello.py")) {
		t.Fatal("expected hello.py to be registered as a target")
	}
}

func TestWriteAtMostOncePerPath(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	db := filedb.New()
	tx := New(db, root, Force)

	target := filepath.Join(root, "hello.py")
	if err := tx.WriteTarget(target, "a", nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := tx.WriteTarget(target, "b", nil, nil); err == nil {
		t.Fatal("expected an error for a second write to the same path")
	}
}

func TestWriteConflictsWhenDiskDriftedFromDB(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	target := filepath.Join(root, "hello.py")

	if err := os.WriteFile(target, []byte("edited by hand"), 0o644); err != nil {
		t.Fatal(err)
	}
	db := filedb.New()
	db.Update(target, filedb.StatOf([]byte("original tangled content"), time.Now()))
	db.MarkTarget(target)

	tx := New(db, root, Show)
	if err := tx.WriteTarget(target, "new tangled content", []string{"input.md"}, nil); err != nil {
		t.Fatal(err)
	}
	report, err := tx.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if !report.HasConflicts() {
		t.Fatal("expected a conflict for a hand-edited target")
	}

	// Show mode must not have touched disk.
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "edited by hand" {
		t.Fatalf("Show mode modified disk: %q", content)
	}
}

func TestFailModeAbortsOnConflict(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	target := filepath.Join(root, "hello.py")
	if err := os.WriteFile(target, []byte("edited by hand"), 0o644); err != nil {
		t.Fatal(err)
	}
	db := filedb.New()
	db.Update(target, filedb.StatOf([]byte("original"), time.Now()))
	db.MarkTarget(target)

	tx := New(db, root, Fail)
	if err := tx.WriteTarget(target, "new content", nil, nil); err != nil {
		t.Fatal(err)
	}
	_, err := tx.Commit()
	if err == nil {
		t.Fatal("expected Fail mode to return an error on conflict")
	}
	var ce *ConflictsError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConflictsError, got %T: %v", err, err)
	}
}

func TestForceModeOverwritesDespiteConflict(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	target := filepath.Join(root, "hello.py")
	if err := os.WriteFile(target, []byte("edited by hand"), 0o644); err != nil {
		t.Fatal(err)
	}
	db := filedb.New()
	db.Update(target, filedb.StatOf([]byte("original"), time.Now()))
	db.MarkTarget(target)

	tx := New(db, root, Force)
	if err := tx.WriteTarget(target, "forced content", nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "forced content" {
		t.Fatalf("content = %q, want forced content", content)
	}
}

func TestClearOrphansDeletesUnwrittenTargets(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	stale := filepath.Join(root, "stale.py")
	kept := filepath.Join(root, "kept.py")
	for _, p := range []string{stale, kept} {
		if err := os.WriteFile(p, []byte("same"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	db := filedb.New()
	db.Update(stale, filedb.StatOf([]byte("same"), time.Now()))
	db.MarkTarget(stale)
	db.Update(kept, filedb.StatOf([]byte("same"), time.Now()))
	db.MarkTarget(kept)

	tx := New(db, root, Force)
	if err := tx.WriteTarget(kept, "same", nil, nil); err != nil {
		t.Fatal(err)
	}
	tx.ClearOrphans()
	if _, err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale.py to be removed, stat err = %v", err)
	}
	if db.IsTarget(stale) {
		t.Fatal("stale.py should no longer be tracked as a target")
	}
	if !db.IsTarget(kept) {
		t.Fatal("kept.py should remain a target")
	}
}

func TestWriteSourceDoesNotBecomeTarget(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	md := filepath.Join(root, "input.md")
	db := filedb.New()

	tx := New(db, root, Force)
	if err := tx.WriteSource(md, "# hello\n", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if db.IsTarget(md) {
		t.Fatal("a stitched Markdown source must never be registered as a target")
	}
	if _, tracked := db.Stat(md); !tracked {
		t.Fatal("expected input.md to be tracked in the file database")
	}
}

func TestWriteTargetSkipsActionWhenContentUnchanged(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	target := filepath.Join(root, "hello.py")
	if err := os.WriteFile(target, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	db := filedb.New()
	db.Update(target, filedb.StatOf([]byte("print('hi')\n"), time.Now()))
	db.MarkTarget(target)

	tx := New(db, root, Force)
	if err := tx.WriteTarget(target, "print('hi')\n", []string{"input.md"}, nil); err != nil {
		t.Fatal(err)
	}
	if len(tx.Plan()) != 0 {
		t.Fatalf("Plan() = %v, want no actions for an unchanged target", tx.Plan())
	}
	report, err := tx.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Actions) != 0 {
		t.Fatalf("Actions = %v, want none staged", report.Actions)
	}
}

// TestUnchangedTargetDoesNotConflictInFailMode reproduces a re-tangle of an
// unmodified source in the default Fail mode: since the target's content
// didn't change, no Write should ever be staged, so the "target newer than
// its sources" check in checkConflict never runs against it.
func TestUnchangedTargetDoesNotConflictInFailMode(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	target := filepath.Join(root, "hello.py")
	if err := os.WriteFile(target, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(target, past, past); err != nil {
		t.Fatal(err)
	}
	db := filedb.New()
	db.Update(target, filedb.StatOf([]byte("print('hi')\n"), past))
	db.MarkTarget(target)
	db.Update(filepath.Join(root, "input.md"), filedb.StatOf([]byte("source"), past.Add(-time.Hour)))

	tx := New(db, root, Fail)
	if err := tx.WriteTarget(target, "print('hi')\n", []string{filepath.Join(root, "input.md")}, nil); err != nil {
		t.Fatal(err)
	}
	report, err := tx.Commit()
	if err != nil {
		t.Fatalf("unexpected error committing an unchanged re-tangle: %v", err)
	}
	if report.HasConflicts() {
		t.Fatalf("unexpected conflicts on an unchanged target: %v", report.Conflicts)
	}
}

func TestResetDBSkipsDiskAndConflicts(t *testing.T) {
	t.Parallel()
	root := setupRoot(t)
	target := filepath.Join(root, "hello.py")
	db := filedb.New()

	tx := New(db, root, ResetDB)
	if err := tx.WriteTarget(target, "content", nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("ResetDB must not write to disk")
	}
	if !db.IsTarget(target) {
		t.Fatal("ResetDB must still update the in-memory DB to match the plan")
	}
}
