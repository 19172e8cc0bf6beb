// Package coderead implements the inverse of the tangler: parsing annotated
// source text back into updated CodeBlock.Source fields (spec.md §4.4). The
// annotation comment tokens are skipped by the matching regex rather than
// required to be known, so stitching works even for a language the current
// Config doesn't have an entry for.
package coderead

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/entangled/entangled-go/internal/apperr"
	"github.com/entangled/entangled-go/internal/refs"
)

var (
	beginPattern = regexp.MustCompile(`^(\s*).*~/~ begin <<([^#]+)#([^>]+)>>\[([\w-]+)\]`)
	endPattern   = regexp.MustCompile(`^(\s*).*~/~ end\s*$`)
)

// Read scans text (the current contents of a tangled file named filename)
// and updates every CodeBlock in rm whose ReferenceId is delimited by a
// matching begin/end marker pair. Lines above the first marker — the
// shebang/SPDX preamble a hook moved into CodeBlock.Header during the
// original read — are discarded silently; nothing else recovers them.
func Read(rm *refs.ReferenceMap, filename string, text string) error {
	lines := refs.SplitLines(text)
	i := 0
	for i < len(lines) {
		m := beginPattern.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		indent := m[1]
		id := refs.ReferenceId{
			Name: refs.ParseReferenceName(m[3], nil),
			File: m[2],
			Ord:  resolveOrd(m[4]),
		}
		next, err := readBlock(rm, filename, lines, i+1, indent, id)
		if err != nil {
			return err
		}
		i = next
	}
	return nil
}

// readBlock consumes lines starting at idx, which are the body of the
// fragment named by id, until it finds the matching close marker at the
// same indent. It recurses into any nested open marker, replacing that
// child's raw lines in this buffer with a `<<name>>` placeholder, and
// stores its own accumulated content into rm before returning.
func readBlock(rm *refs.ReferenceMap, filename string, lines []string, idx int, indent string, id refs.ReferenceId) (int, error) {
	var buf []string
	i := idx
	for i < len(lines) {
		line := lines[i]

		if m := endPattern.FindStringSubmatch(line); m != nil {
			if m[1] != indent {
				return 0, &apperr.IndentationError{
					Location: refs.TextLocation{Filename: filename, Line: i + 1},
					Msg:      "close marker indent does not match its opening marker",
				}
			}
			storeSource(rm, id, joinBuffered(buf))
			return i + 1, nil
		}

		if m := beginPattern.FindStringSubmatch(line); m != nil {
			childIndent := m[1]
			if len(childIndent) < len(indent) {
				return 0, &apperr.IndentationError{
					Location: refs.TextLocation{Filename: filename, Line: i + 1},
					Msg:      "nested begin marker indented less than its enclosing fragment",
				}
			}
			childID := refs.ReferenceId{
				Name: refs.ParseReferenceName(m[3], nil),
				File: m[2],
				Ord:  resolveOrd(m[4]),
			}
			next, err := readBlock(rm, filename, lines, i+1, childIndent, childID)
			if err != nil {
				return 0, err
			}
			if m[4] == "init" {
				rel := childIndent[len(indent):]
				qualified := childID.Name.Name
				if !sameNamespace(childID.Name.Namespace, id.Name.Namespace) {
					qualified = childID.Name.String()
				}
				buf = append(buf, rel+"<<"+qualified+">>")
			}
			i = next
			continue
		}

		if !strings.HasPrefix(line, indent) {
			return 0, &apperr.IndentationError{
				Location: refs.TextLocation{Filename: filename, Line: i + 1},
				Msg:      "line indented less than its enclosing fragment",
			}
		}
		buf = append(buf, line[len(indent):])
		i++
	}
	return 0, &apperr.ParseError{
		Location: refs.TextLocation{Filename: filename, Line: idx},
		Msg:      "missing closing `~/~ end` annotation marker",
	}
}

func joinBuffered(buf []string) string {
	if len(buf) == 0 {
		return ""
	}
	return strings.Join(buf, "\n") + "\n"
}

func storeSource(rm *refs.ReferenceMap, id refs.ReferenceId, content string) {
	block, ok := rm.Get(id)
	if !ok {
		// A marker for an id no longer present in the reference map (the
		// Markdown that defined it was removed); nothing to update.
		return
	}
	block.Source = content
}

func resolveOrd(s string) int {
	if s == "init" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func sameNamespace(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
