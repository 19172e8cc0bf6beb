// Package tangle implements the forward direction of the literate-programming
// transform: expanding a named fragment into the source text of a generated
// file, following `<<name>>` references, wrapping each fragment in
// comment-delimited annotation markers, and propagating indentation
// (spec.md §4.3).
package tangle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/entangled/entangled-go/internal/apperr"
	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

var referenceLine = referenceLinePattern()

// Result is the output of tangling one target name: the generated text, and
// the set of Markdown source paths that contributed a block to it (used for
// dependency tracking in the transaction layer).
type Result struct {
	Text    string
	Sources map[string]bool
}

// Tangle expands name into the text of its generated file.
func Tangle(cfg config.Config, rm *refs.ReferenceMap, name refs.ReferenceName) (Result, error) {
	v := &visitor{active: map[string]bool{}}
	sources := map[string]bool{}
	text, err := expandName(cfg, rm, name, v, sources, refs.TextLocation{Filename: "<target>", Line: 0})
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Sources: sources}, nil
}

// visitor tracks the names currently being expanded in this tangle
// invocation, so a re-entrant expansion is caught as a cycle. Diamond
// inclusion — the same fragment reachable from two different call sites,
// neither of which is an ancestor of the other — is permitted, because a
// name is only "active" between its own enter and leave.
type visitor struct {
	stack  []string
	active map[string]bool
}

func (v *visitor) enter(name string) error {
	if v.active[name] {
		// name is still "active" from an earlier, unfinished call, so the
		// stack from that call onward is the cycle.
		start := 0
		for i, n := range v.stack {
			if n == name {
				start = i
				break
			}
		}
		cycle := append([]string(nil), v.stack[start:]...)
		return &apperr.CyclicReference{Name: name, Cycle: cycle}
	}
	v.active[name] = true
	v.stack = append(v.stack, name)
	return nil
}

func (v *visitor) leave(name string) {
	delete(v.active, name)
	v.stack = v.stack[:len(v.stack)-1]
}

func expandName(cfg config.Config, rm *refs.ReferenceMap, name refs.ReferenceName, v *visitor, sources map[string]bool, origin fmt.Stringer) (string, error) {
	key := name.String()
	if err := v.enter(key); err != nil {
		return "", err
	}
	defer v.leave(key)

	ids := rm.SelectByName(name)
	if len(ids) == 0 {
		return "", &apperr.MissingReference{Origin: origin, Name: name.String()}
	}

	var b strings.Builder
	for _, id := range ids {
		block, ok := rm.Get(id)
		if !ok {
			return "", apperr.NewInternal("ReferenceId in by_name index missing from map", id)
		}
		sources[id.File] = true
		blockText, err := expandBlock(cfg, rm, id, block, v, sources)
		if err != nil {
			return "", err
		}
		b.WriteString(blockText)
	}
	return b.String(), nil
}

func expandBlock(cfg config.Config, rm *refs.ReferenceMap, id refs.ReferenceId, block *refs.CodeBlock, v *visitor, sources map[string]bool) (string, error) {
	var b strings.Builder
	b.WriteString(block.Header)

	var lang config.Language
	haveLang := false
	if block.Language != nil {
		if l, ok := cfg.Language(*block.Language); ok {
			lang, haveLang = l, true
		}
	}

	if cfg.Annotation != config.NAKED {
		if !haveLang {
			return "", &apperr.MissingLanguageError{Origin: block.Origin}
		}
		b.WriteString(beginMarker(lang, id))
		if cfg.Annotation == config.SUPPLEMENTED {
			b.WriteString(supplementComment(lang, block.Origin))
		}
	}

	body, err := expandBody(cfg, rm, block, v, sources)
	if err != nil {
		return "", err
	}
	b.WriteString(body)

	if cfg.Annotation != config.NAKED {
		b.WriteString(endMarker(lang))
	}
	return b.String(), nil
}

// expandBody walks block.Source line by line, recursively expanding any
// line that is exactly `<<name>>` (after its leading indent), and
// re-indenting the expansion by that line's indent.
func expandBody(cfg config.Config, rm *refs.ReferenceMap, block *refs.CodeBlock, v *visitor, sources map[string]bool) (string, error) {
	lines := refs.SplitLines(block.Source)
	endsInNewline := block.Source == "" || strings.HasSuffix(block.Source, "\n")

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		m := referenceLine.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		indent, refText := m[1], m[2]
		name := refs.ParseReferenceName(refText, block.Namespace)
		expansion, err := expandName(cfg, rm, name, v, sources, block.Origin)
		if err != nil {
			return "", err
		}
		expansion = strings.TrimSuffix(expansion, "\n")
		indented := refs.Indent(indent, expansion)
		out = append(out, strings.Split(indented, "\n")...)
	}

	result := strings.Join(out, "\n")
	if endsInNewline && result != "" {
		result += "\n"
	}
	return result, nil
}

func beginMarker(lang config.Language, id refs.ReferenceId) string {
	ord := "init"
	if id.Ord != 0 {
		ord = strconv.Itoa(id.Ord)
	}
	marker := fmt.Sprintf("%s ~/~ begin <<%s#%s>>[%s]", lang.Comment.Open, id.File, id.Name.String(), ord)
	return closeComment(lang, marker) + "\n"
}

func endMarker(lang config.Language) string {
	return closeComment(lang, lang.Comment.Open+" ~/~ end") + "\n"
}

func supplementComment(lang config.Language, origin refs.TextLocation) string {
	marker := fmt.Sprintf("%s tangled from %s:%d", lang.Comment.Open, origin.Filename, origin.Line)
	return closeComment(lang, marker) + "\n"
}

func closeComment(lang config.Language, marker string) string {
	if lang.Comment.Close == "" {
		return marker
	}
	return marker + " " + lang.Comment.Close
}
