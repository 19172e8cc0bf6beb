// Package document is the stateful facade that ties the reference model,
// the Markdown reader, the code reader, the tangler, and the hook pipeline
// together into the operations a CLI command actually calls (spec.md
// §4.9): load Markdown, load tangled code back in, tangle a target, and
// stitch a source back out.
package document

import (
	"sort"

	"github.com/entangled/entangled-go/internal/apperr"
	"github.com/entangled/entangled-go/internal/coderead"
	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/hooks"
	"github.com/entangled/entangled-go/internal/mdreader"
	"github.com/entangled/entangled-go/internal/refs"
	"github.com/entangled/entangled-go/internal/tangle"
)

// sourceEntry is what LoadSource remembers about one Markdown file so
// Stitch can reconstruct it later.
type sourceEntry struct {
	content    []refs.Content
	hasHeader  bool
	headerText string
}

// Document owns one project's whole in-memory state: its resolved
// configuration (accumulated from every document header read so far), the
// reference map every tangle/stitch operation reads and writes, and the
// per-path record needed to reconstruct a Markdown file on stitch.
type Document struct {
	Config   config.Config
	RM       *refs.ReferenceMap
	registry *hooks.Registry
	sources  map[string]sourceEntry
}

// New builds an empty Document seeded with base (normally config.Default()
// merged with a project's on-disk config file, which is an external
// collaborator's concern per spec.md §1).
func New(base config.Config) *Document {
	return &Document{
		Config:   base,
		RM:       refs.New(),
		registry: hooks.NewRegistry(),
		sources:  make(map[string]sourceEntry),
	}
}

// LoadSource reads a Markdown file's text, registering every code block it
// contains into the Document's reference map and merging any per-document
// YAML header overlay into Config.
func (d *Document) LoadSource(filename, text string) error {
	hs := d.registry.Enabled(d.Config)
	res, err := mdreader.Read(d.Config, hs, d.RM, filename, text)
	if err != nil {
		return err
	}
	d.Config = res.Config
	d.sources[filename] = sourceEntry{
		content:    res.Content,
		hasHeader:  res.HasHeader,
		headerText: res.HeaderText,
	}
	return nil
}

// LoadCode reads a tangled file's current text, updating the Source field
// of every CodeBlock whose annotation markers it finds. Call this before
// Stitch when importing edits made directly to generated files.
func (d *Document) LoadCode(filename, text string) error {
	return coderead.Read(d.RM, filename, text)
}

// Targets returns every target path registered across every Markdown file
// loaded so far, sorted for deterministic iteration.
func (d *Document) Targets() []string {
	return d.RM.Targets()
}

// Sources returns every path previously passed to LoadSource, sorted for
// deterministic iteration. Callers use this to mark each Markdown source
// as read in the file database once a run has finished with it (spec.md
// §4.9's `load_source(tx, path)` calls `tx.update(path)`).
func (d *Document) Sources() []string {
	out := make([]string, 0, len(d.sources))
	for path := range d.sources {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Tangle expands the named target file's generated text.
func (d *Document) Tangle(targetPath string) (tangle.Result, error) {
	name, ok := d.RM.TargetName(targetPath)
	if !ok {
		return tangle.Result{}, &apperr.MissingReference{
			Origin: refs.TextLocation{Filename: targetPath},
			Name:   targetPath,
		}
	}
	return tangle.Tangle(d.Config, d.RM, name)
}

// RunHooks drives the PreTangle/OnTangle/PostTangle lifecycle against the
// Document's reference map, handing tx to any hook (task, build) that
// stages its own derived file through it.
func (d *Document) RunHooks(tx hooks.TxWriter) error {
	hs := d.registry.Enabled(d.Config)
	if err := hooks.PreTangle(hs, d.Config, d.RM); err != nil {
		return err
	}
	if err := hooks.OnTangle(hs, d.Config, d.RM, tx); err != nil {
		return err
	}
	return hooks.PostTangle(hs, d.Config, d.RM)
}

// Stitch reconstructs the full text of a Markdown file previously passed to
// LoadSource, folding any edits coderead.Read applied to its code blocks'
// Source fields back into the rendered body, and reattaching the file's
// original YAML header verbatim if it had one.
func (d *Document) Stitch(filename string) (string, error) {
	entry, ok := d.sources[filename]
	if !ok {
		return "", apperr.NewInternal("stitch requested for a document that was never loaded", filename)
	}
	body := refs.Render(d.RM, entry.content)
	if !entry.hasHeader {
		return body, nil
	}
	return "---\n" + entry.headerText + "\n---\n" + body, nil
}
