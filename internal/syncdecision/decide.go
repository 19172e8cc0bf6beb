// Package syncdecision implements the sync command's per-pair decision
// table (spec.md §4.8): given what the FileDB last recorded and what is
// actually on disk right now for a Markdown source and the targets it
// tangles to, decide whether the pair needs tangling, stitching, neither,
// or has diverged in both directions at once.
package syncdecision

import "github.com/entangled/entangled-go/internal/filedb"

// Action is the decision Decide reaches for one (source, targets) pair.
type Action int

const (
	// Nothing means neither the source nor any target changed since the
	// last run; there is nothing to do.
	Nothing Action = iota
	// Tangle means the Markdown source changed; regenerate its targets.
	Tangle
	// Stitch means a target changed; re-import its edits into the source.
	Stitch
	// Conflict means both sides changed since the last run and an
	// automatic direction can't be chosen safely.
	Conflict
)

func (a Action) String() string {
	switch a {
	case Nothing:
		return "nothing"
	case Tangle:
		return "tangle"
	case Stitch:
		return "stitch"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Observation is one file's on-disk state as observed for this sync tick.
type Observation struct {
	Path    string
	Present bool
	Digest  string // only meaningful when Present
}

// Decide compares an observed source file and its observed target files
// against what db last recorded for each, and returns the action a sync
// loop should take for this pair.
func Decide(db *filedb.FileDB, source Observation, targets []Observation) Action {
	sourceChanged := changed(db, source)
	targetChanged := false
	for _, t := range targets {
		if changed(db, t) {
			targetChanged = true
			break
		}
	}

	switch {
	case sourceChanged && targetChanged:
		return Conflict
	case sourceChanged:
		return Tangle
	case targetChanged:
		return Stitch
	default:
		return Nothing
	}
}

// changed reports whether o's current state differs from what db recorded
// the last time this path was written or read.
func changed(db *filedb.FileDB, o Observation) bool {
	stat, tracked := db.Stat(o.Path)
	if !tracked {
		// Never seen before: a newly created file is a change, a path that
		// simply doesn't exist yet is not.
		return o.Present
	}
	if !o.Present {
		return true // tracked file vanished out from under the DB
	}
	return stat.Hexdigest != o.Digest
}
