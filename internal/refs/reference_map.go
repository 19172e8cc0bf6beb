package refs

import (
	"sort"
	"strconv"

	"github.com/entangled/entangled-go/internal/apperr"
)

func idKey(id ReferenceId) string {
	return id.Name.key() + "\x02" + id.File + "\x03" + strconv.Itoa(id.Ord)
}

// ReferenceMap is the in-memory store of code fragments, keyed by
// ReferenceId and indexed by name and by target path (spec.md §3).
// The map owns every CodeBlock; callers get pointers back so hooks and the
// code reader can mutate Source in place during the read/stitch phases.
type ReferenceMap struct {
	blocks  map[string]*CodeBlock
	ids     map[string]ReferenceId // idKey -> canonical ReferenceId, for iteration
	order   []ReferenceId          // insertion order, for hooks that must scan every block
	byName  map[string][]ReferenceId
	names   map[string]ReferenceName // name.key() -> canonical ReferenceName
	targets map[string]ReferenceName // path -> name
}

// New creates an empty ReferenceMap.
func New() *ReferenceMap {
	return &ReferenceMap{
		blocks:  make(map[string]*CodeBlock),
		ids:     make(map[string]ReferenceId),
		byName:  make(map[string][]ReferenceId),
		names:   make(map[string]ReferenceName),
		targets: make(map[string]ReferenceName),
	}
}

// All returns every ReferenceId in insertion order, for hooks and tooling
// that need to scan the whole reference map (e.g. the task/build hooks
// collecting every block tagged `.task`).
func (r *ReferenceMap) All() []ReferenceId {
	return append([]ReferenceId(nil), r.order...)
}

// NewID mints a ReferenceId for name in filename with the next available
// ordinal: the count of existing entries with the same name in the same
// file (invariant 2 in spec.md §3 — ordinals enumerate 0..k-1 with no gaps).
func (r *ReferenceMap) NewID(filename string, name ReferenceName) ReferenceId {
	count := 0
	for _, id := range r.byName[name.key()] {
		if id.File == filename {
			count++
		}
	}
	return ReferenceId{Name: name, File: filename, Ord: count}
}

// Set inserts a new code block. Setting the same ReferenceId twice is a
// broken invariant (each read assigns fresh, gap-free ordinals) and
// returns an InternalError rather than silently overwriting.
func (r *ReferenceMap) Set(id ReferenceId, block *CodeBlock) error {
	k := idKey(id)
	if _, exists := r.blocks[k]; exists {
		return apperr.NewInternal("duplicate key in ReferenceMap", id)
	}
	r.blocks[k] = block
	r.ids[k] = id
	r.order = append(r.order, id)
	r.names[id.Name.key()] = id.Name
	r.byName[id.Name.key()] = append(r.byName[id.Name.key()], id)

	if file, ok := GetAttributeString(block.Properties, "file"); ok {
		r.targets[file] = id.Name
	}
	return nil
}

// Get returns the code block for id.
func (r *ReferenceMap) Get(id ReferenceId) (*CodeBlock, bool) {
	b, ok := r.blocks[idKey(id)]
	return b, ok
}

// Has reports whether id is present.
func (r *ReferenceMap) Has(id ReferenceId) bool {
	_, ok := r.blocks[idKey(id)]
	return ok
}

// Delete removes id, also dropping its target registration if it owned one.
func (r *ReferenceMap) Delete(id ReferenceId) {
	k := idKey(id)
	block, ok := r.blocks[k]
	if !ok {
		return
	}
	if file, ok := GetAttributeString(block.Properties, "file"); ok {
		delete(r.targets, file)
	}
	list := r.byName[id.Name.key()]
	for i, existing := range list {
		if idKey(existing) == k {
			r.byName[id.Name.key()] = append(list[:i], list[i+1:]...)
			break
		}
	}
	for i, existing := range r.order {
		if idKey(existing) == k {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	delete(r.blocks, k)
	delete(r.ids, k)
}

// HasName reports whether any block is registered under name.
func (r *ReferenceMap) HasName(name ReferenceName) bool {
	_, ok := r.byName[name.key()]
	return ok
}

// SelectByName returns every ReferenceId registered under name, in the
// document order they were read.
func (r *ReferenceMap) SelectByName(name ReferenceName) []ReferenceId {
	return r.byName[name.key()]
}

// RegisterTarget records that path is produced by name. At most one block
// may declare a given target path (invariant 3); later registrations win,
// with the caller responsible for surfacing the conflict as a warning.
func (r *ReferenceMap) RegisterTarget(path string, name ReferenceName) {
	r.targets[path] = name
}

// TargetName returns the ReferenceName registered for a target path.
func (r *ReferenceMap) TargetName(path string) (ReferenceName, bool) {
	n, ok := r.targets[path]
	return n, ok
}

// Targets returns every registered target path, sorted for deterministic
// iteration (tangling all targets, clearing orphans).
func (r *ReferenceMap) Targets() []string {
	paths := make([]string, 0, len(r.targets))
	for p := range r.targets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of blocks stored.
func (r *ReferenceMap) Len() int {
	return len(r.blocks)
}
