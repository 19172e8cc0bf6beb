// Package hooks implements the per-block and per-tangle transformers
// described in spec.md §4.5: shebang/SPDX header extraction, Quarto-style
// attribute comments, and the brei/build task emitters. A Hook declares any
// subset of the four lifecycle callbacks; Base supplies no-op defaults so a
// concrete hook only overrides what it needs, the re-architecture spec.md §9
// asks for in place of the original package-entry-point registry.
package hooks

import (
	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

// TxWriter is the narrow slice of the transaction layer a hook's OnTangle
// callback needs: the ability to stage a derived file for writing. Defined
// here rather than importing internal/txn so neither package depends on the
// other; internal/txn.Transaction satisfies this structurally.
type TxWriter interface {
	WriteDerived(path string, content []byte, sources []string) error
}

// Hook is a per-block and per-tangle transformer.
type Hook interface {
	Name() string
	Priority() int
	OnRead(cfg config.Config, block *refs.CodeBlock) error
	PreTangle(cfg config.Config, rm *refs.ReferenceMap) error
	OnTangle(cfg config.Config, rm *refs.ReferenceMap, tx TxWriter) error
	PostTangle(cfg config.Config, rm *refs.ReferenceMap) error
}

// Base supplies no-op implementations of every callback; embed it in a
// concrete hook and override only the callbacks it actually needs.
type Base struct{}

func (Base) OnRead(config.Config, *refs.CodeBlock) error                { return nil }
func (Base) PreTangle(config.Config, *refs.ReferenceMap) error          { return nil }
func (Base) OnTangle(config.Config, *refs.ReferenceMap, TxWriter) error { return nil }
func (Base) PostTangle(config.Config, *refs.ReferenceMap) error         { return nil }

// moveLeadingLine moves the first line of block.Source into block.Header
// when predicate matches it, leaving the rest of Source untouched. Used by
// both the shebang and spdx_license hooks.
func moveLeadingLine(block *refs.CodeBlock, predicate func(string) bool) bool {
	lines := refs.SplitLines(block.Source)
	if len(lines) == 0 || !predicate(lines[0]) {
		return false
	}
	block.Header += lines[0] + "\n"
	rest := lines[1:]
	if len(rest) == 0 {
		block.Source = ""
		return true
	}
	block.Source = joinWithTrailingNewline(rest)
	return true
}

func joinWithTrailingNewline(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	out += "\n"
	return out
}
