package txn

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/entangled/entangled-go/internal/apperr"
	"github.com/entangled/entangled-go/internal/filedb"
	"github.com/entangled/entangled-go/internal/fsx"
)

// Mode governs what Commit does when planned actions conflict with the
// state actually on disk (spec.md §4.7).
type Mode int

const (
	// Show only plans and reports; it never touches disk or the DB.
	Show Mode = iota
	// Fail aborts the whole transaction the moment any conflict is found.
	Fail
	// Confirm returns the conflicts to the caller for interactive
	// confirmation; re-running Commit in Force mode proceeds anyway.
	Confirm
	// Force executes every action regardless of conflicts.
	Force
	// ResetDB skips conflict checking and never writes or deletes a planned
	// file; it only rewrites the FileDB (refreshing MarkRead paths from disk)
	// to match the plan as if every action had already happened —
	// used to recover from a `.entangled/filedb.json` that drifted from
	// reality (spec.md §4.6's version-drift recommendation).
	ResetDB
)

// ConflictsError is returned by Commit in Fail mode, or by Commit in
// Confirm mode when the caller has not yet confirmed.
type ConflictsError struct {
	Conflicts []Conflict
}

func (e *ConflictsError) Error() string {
	return fmt.Sprintf("transaction has %d unresolved conflict(s)", len(e.Conflicts))
}

// Transaction stages a batch of file writes/deletes against a FileDB,
// checks them for conflicts against the real filesystem, and commits them
// atomically and in a fixed order (spec.md §4.7). A Transaction is built
// once per tangle/stitch run, WriteTarget/WriteSource/WriteDerived called
// at most once per path,
// ClearOrphans called last, then Commit.
type Transaction struct {
	db     *filedb.FileDB
	cache  *fsx.FileCache
	root   string
	tmpDir string
	mode   Mode

	actions []Action
	passed  map[string]bool // at-most-one-write-per-path enforcement
	updates []string        // source paths to refresh in the DB on commit, not written
}

// New builds a Transaction over db rooted at root (the project directory
// containing `.entangled/`), in the given mode.
func New(db *filedb.FileDB, root string, mode Mode) *Transaction {
	return &Transaction{
		db:     db,
		cache:  fsx.NewFileCache(),
		root:   root,
		tmpDir: filepath.Join(root, ".entangled", "tmp"),
		mode:   mode,
		passed: make(map[string]bool),
	}
}

// stage records either a Create or Write action for target, inferring
// which from whether the DB already tracks target. A target whose content
// already matches what the DB recorded is left untouched entirely: no
// action is staged, so Commit never rewrites a file that didn't change.
func (t *Transaction) stage(target string, content []byte, sources []string, mode *int, isTarget bool) error {
	if t.passed[target] {
		return apperr.NewInternal("at most one write per path per transaction", target)
	}
	t.passed[target] = true

	dbStat, tracked := t.db.Stat(target)
	if tracked && dbStat.Hexdigest == filedb.Digest(content) {
		return nil
	}

	kind := Write
	if !tracked {
		kind = Create
	}
	t.actions = append(t.actions, Action{
		Kind:     kind,
		Target:   target,
		Content:  content,
		Sources:  append([]string(nil), sources...),
		Mode:     mode,
		IsTarget: isTarget,
	})
	return nil
}

// WriteTarget stages a tangled output file, marking it as a managed target
// so it participates in orphan clearing on future runs.
func (t *Transaction) WriteTarget(target, content string, sources []string, mode *int) error {
	return t.stage(target, []byte(content), sources, mode, true)
}

// WriteSource stages a rewritten Markdown source produced by stitch. It is
// not marked as a target: Markdown files are never orphan-cleared.
func (t *Transaction) WriteSource(path, content string, sources []string) error {
	return t.stage(path, []byte(content), sources, nil, false)
}

// WriteDerived satisfies hooks.TxWriter, letting hooks (task manifest,
// Makefile) stage their own generated files as managed targets.
func (t *Transaction) WriteDerived(path string, content []byte, sources []string) error {
	return t.stage(path, content, sources, nil, true)
}

// MarkRead records that path was loaded as an input this run, so its stat
// is refreshed in the DB on commit even though nothing was written to it.
func (t *Transaction) MarkRead(path string) {
	t.updates = append(t.updates, path)
}

// ClearOrphans stages a Delete action for every currently tracked target
// that no WriteTarget/WriteSource/WriteDerived call touched this run — the targets a
// source no longer produces (spec.md §4.7, "orphan clearing").
func (t *Transaction) ClearOrphans() {
	targets := make([]string, 0, len(t.db.Targets))
	for target := range t.db.Targets {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		if !t.passed[target] {
			t.actions = append(t.actions, Action{Kind: Delete, Target: target})
		}
	}
}

// Plan returns the staged actions in commit order (creates/writes, then
// deletes) without touching disk.
func (t *Transaction) Plan() []Action {
	return orderedActions(t.actions)
}

func orderedActions(actions []Action) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a.Kind != Delete {
			out = append(out, a)
		}
	}
	for _, a := range actions {
		if a.Kind == Delete {
			out = append(out, a)
		}
	}
	return out
}

// checkConflict reports why committing a would clobber something the
// transaction did not itself produce, or nil if a is safe to apply.
func (t *Transaction) checkConflict(a Action) (*Conflict, error) {
	switch a.Kind {
	case Create:
		disk, ok, err := t.cache.Read(a.Target)
		if err != nil {
			return nil, err
		}
		if ok && len(disk) > 0 && filedb.Digest(disk) != filedb.Digest(a.Content) {
			return &Conflict{Target: a.Target, Reason: "would overwrite an existing file entangled has never managed"}, nil
		}
		return nil, nil

	case Write:
		diskStat, ok, err := t.cache.Stat(a.Target)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil // tracked by DB but missing on disk: nothing to clobber
		}
		dbStat, tracked := t.db.Stat(a.Target)
		if !tracked {
			return nil, nil
		}
		diskContent, _, err := t.cache.Read(a.Target)
		if err != nil {
			return nil, err
		}
		if filedb.Digest(diskContent) != dbStat.Hexdigest {
			return &Conflict{Target: a.Target, Reason: "file was modified outside entangled since the last run"}, nil
		}
		if len(a.Sources) == 0 {
			return nil, nil
		}
		anyNewer := false
		for _, src := range a.Sources {
			srcStat, ok, err := t.cache.Stat(src)
			if err != nil {
				return nil, err
			}
			if ok && srcStat.ModTime().After(diskStat.ModTime()) {
				anyNewer = true
				break
			}
		}
		if !anyNewer {
			return &Conflict{Target: a.Target, Reason: "target is newer than all of its sources"}, nil
		}
		return nil, nil

	case Delete:
		diskStat, onDisk, err := t.cache.Stat(a.Target)
		_ = diskStat
		if err != nil {
			return nil, err
		}
		dbStat, tracked := t.db.Stat(a.Target)
		if onDisk != tracked {
			return &Conflict{Target: a.Target, Reason: "on-disk presence disagrees with the file database"}, nil
		}
		if onDisk {
			diskContent, _, err := t.cache.Read(a.Target)
			if err != nil {
				return nil, err
			}
			if filedb.Digest(diskContent) != dbStat.Hexdigest {
				return &Conflict{Target: a.Target, Reason: "file was modified outside entangled before it could be removed"}, nil
			}
		}
		return nil, nil
	}
	return nil, nil
}

// Commit checks every staged action for conflicts, applies the transaction
// mode's policy, then — unless Show or an aborting conflict stops it —
// executes every action (writes before deletes) and persists the FileDB.
func (t *Transaction) Commit() (*Report, error) {
	ordered := orderedActions(t.actions)

	if t.mode == ResetDB {
		rebuilt := Rebuild(ordered)
		t.db.Files = rebuilt.Files
		t.db.Targets = rebuilt.Targets
		for _, p := range t.updates {
			t.refreshRead(p)
		}
		if err := t.persist(); err != nil {
			return nil, err
		}
		return &Report{Actions: ordered}, nil
	}

	var conflicts []Conflict
	for _, a := range ordered {
		c, err := t.checkConflict(a)
		if err != nil {
			return nil, err
		}
		if c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	report := &Report{Actions: ordered, Conflicts: conflicts}

	switch t.mode {
	case Show:
		return report, nil
	case Fail, Confirm:
		if len(conflicts) > 0 {
			return report, &ConflictsError{Conflicts: conflicts}
		}
	case Force:
		// proceed unconditionally
	}

	for _, a := range ordered {
		if err := t.execute(a); err != nil {
			return report, err
		}
	}
	for _, p := range t.updates {
		t.refreshRead(p)
	}
	if err := t.persist(); err != nil {
		return report, err
	}
	return report, nil
}

func (t *Transaction) execute(a Action) error {
	switch a.Kind {
	case Create, Write:
		if err := fsx.AtomicWrite(t.tmpDir, a.Target, a.Content, a.Mode); err != nil {
			return err
		}
		t.cache.Invalidate(a.Target)
		modTime := time.Now()
		if info, err := os.Stat(a.Target); err == nil {
			modTime = info.ModTime()
		}
		t.applyToDB(a, modTime)
	case Delete:
		if err := fsx.Delete(t.root, a.Target); err != nil {
			return err
		}
		t.cache.Invalidate(a.Target)
		t.db.Delete(a.Target)
	}
	return nil
}

func (t *Transaction) applyToDB(a Action, modTime time.Time) {
	switch a.Kind {
	case Create, Write:
		t.db.Update(a.Target, filedb.StatOf(a.Content, modTime))
		if a.IsTarget {
			t.db.MarkTarget(a.Target)
		}
	case Delete:
		t.db.Delete(a.Target)
	}
}

func (t *Transaction) refreshRead(path string) {
	content, ok, err := t.cache.Read(path)
	if err != nil || !ok {
		return
	}
	stat, ok, err := t.cache.Stat(path)
	if err != nil || !ok {
		return
	}
	t.db.Update(path, filedb.StatOf(content, stat.ModTime()))
}

func (t *Transaction) persist() error {
	return t.db.Save(t.tmpDir, filepath.Join(t.root, ".entangled", "filedb.json"))
}
