package filedb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/entangled/entangled-go/internal/fsx"
)

// CurrentVersion is written into every FileDB this build persists, and
// compared against on load to detect structural drift from an older or
// newer tool version.
const CurrentVersion = "2.0.0"

// FileDB is the persistent record of every file this project's Markdown
// tracks: Markdown sources and the targets tangled from them. The subset of
// Files present in Targets is managed (derived); Files minus Targets are
// Markdown sources (spec.md §3, §4.6).
type FileDB struct {
	Version string              `json:"version"`
	Files   map[string]FileStat `json:"files"`
	Targets map[string]bool     `json:"targets,omitempty"`

	// Drifted is set by Load when the on-disk version differs from
	// CurrentVersion; it is advisory only, surfaced by the CLI as a
	// recommendation to run a reset, never acted on automatically.
	Drifted bool `json:"-"`
}

// wireFormat mirrors the on-disk JSON schema from spec.md §6, where targets
// is an array rather than the map New uses internally for O(1) lookups.
type wireFormat struct {
	Version string              `json:"version"`
	Files   map[string]FileStat `json:"files"`
	Targets []string            `json:"targets"`
}

// New returns an empty FileDB at the current schema version.
func New() *FileDB {
	return &FileDB{
		Version: CurrentVersion,
		Files:   make(map[string]FileStat),
		Targets: make(map[string]bool),
	}
}

// Load reads the FileDB at path. A missing file is not an error: it yields
// a fresh, empty FileDB, the normal state for a project's first run.
func Load(path string) (*FileDB, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, err
	}

	var wire wireFormat
	if err := json.Unmarshal(content, &wire); err != nil {
		return nil, err
	}

	db := &FileDB{
		Version: wire.Version,
		Files:   wire.Files,
		Targets: make(map[string]bool, len(wire.Targets)),
	}
	if db.Files == nil {
		db.Files = make(map[string]FileStat)
	}
	for _, t := range wire.Targets {
		db.Targets[t] = true
	}
	db.Drifted = wire.Version != "" && wire.Version != CurrentVersion
	return db, nil
}

// Save persists db to path via an atomic tempfile+rename write, using
// tmpDir (normally `.entangled/tmp`) for the intermediate file.
func (db *FileDB) Save(tmpDir, path string) error {
	db.Version = CurrentVersion
	wire := wireFormat{
		Version: db.Version,
		Files:   db.Files,
		Targets: db.sortedTargets(),
	}
	content, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return err
	}
	return fsx.AtomicWrite(tmpDir, path, content, nil)
}

func (db *FileDB) sortedTargets() []string {
	out := make([]string, 0, len(db.Targets))
	for t := range db.Targets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Stat returns the recorded stat for path, if tracked.
func (db *FileDB) Stat(path string) (FileStat, bool) {
	s, ok := db.Files[path]
	return s, ok
}

// Update records stat for path.
func (db *FileDB) Update(path string, stat FileStat) {
	db.Files[path] = stat
}

// Delete forgets path entirely (both as a file and, if it was one, as a
// target).
func (db *FileDB) Delete(path string) {
	delete(db.Files, path)
	delete(db.Targets, path)
}

// MarkTarget records that path is a managed (tangled) file.
func (db *FileDB) MarkTarget(path string) {
	db.Targets[path] = true
}

// IsTarget reports whether path is tracked as a managed file.
func (db *FileDB) IsTarget(path string) bool {
	return db.Targets[path]
}

// TrackedPaths returns every path the DB knows about, Markdown sources and
// targets alike, sorted for deterministic iteration.
func (db *FileDB) TrackedPaths() []string {
	out := make([]string, 0, len(db.Files))
	for p := range db.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Undead reports every tracked path that no longer exists under root: a
// file the DB still remembers but that vanished from disk outside of any
// transaction. It is advisory, like Drifted — the caller decides whether
// to warn, reset, or ignore it.
func (db *FileDB) Undead(root string) []string {
	var out []string
	for _, p := range db.TrackedPaths() {
		if _, err := os.Stat(filepath.Join(root, p)); os.IsNotExist(err) {
			out = append(out, p)
		}
	}
	return out
}
