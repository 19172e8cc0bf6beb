package hooks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

// Recipe is one `.task`-tagged block collected by Task.PreTangle, written out
// as part of the JSON build manifest during OnTangle (spec.md §4.5).
type Recipe struct {
	Description string   `json:"description,omitempty"`
	Creates     []string `json:"creates,omitempty"`
	Requires    []string `json:"requires,omitempty"`
	Runner      string   `json:"runner,omitempty"`
	Stdout      string   `json:"stdout,omitempty"`
	Stdin       string   `json:"stdin,omitempty"`
	Collect     string   `json:"collect,omitempty"`
	Script      string   `json:"script,omitempty"`
}

// Task scans every block tagged `.task` during PreTangle and writes a JSON
// build manifest to `.entangled/tasks.json` during OnTangle. The manifest is
// consumed by a user-authored build runner invoked as an external process —
// out of scope for this module (spec.md §1).
type Task struct {
	Base
	recipes []Recipe
}

func (*Task) Name() string { return "brei" }

func (*Task) Priority() int { return 30 }

func (t *Task) PreTangle(_ config.Config, rm *refs.ReferenceMap) error {
	t.recipes = nil
	for _, id := range rm.All() {
		block, ok := rm.Get(id)
		if !ok || !hasClass(block, "task") {
			continue
		}
		t.recipes = append(t.recipes, Recipe{
			Description: attrString(block, "description"),
			Creates:     attrStringList(block, "creates"),
			Requires:    attrStringList(block, "requires"),
			Runner:      attrString(block, "runner"),
			Stdout:      attrString(block, "stdout"),
			Stdin:       attrString(block, "stdin"),
			Collect:     attrString(block, "collect"),
			Script:      block.Source,
		})
	}
	return nil
}

func (t *Task) OnTangle(_ config.Config, _ *refs.ReferenceMap, tx TxWriter) error {
	if len(t.recipes) == 0 {
		return nil
	}
	payload, err := json.MarshalIndent(struct {
		Tasks []Recipe `json:"tasks"`
	}{Tasks: t.recipes}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task manifest: %w", err)
	}
	return tx.WriteDerived(".entangled/tasks.json", payload, nil)
}

// Build emits a Makefile for every block tagged `.build`, a convenience
// variant of Task for projects that already drive their build with make.
type Build struct {
	Base
	rules []buildRule
}

type buildRule struct {
	target   string
	requires []string
	recipe   string
}

func (*Build) Name() string { return "build" }

func (*Build) Priority() int { return 30 }

func (b *Build) PreTangle(_ config.Config, rm *refs.ReferenceMap) error {
	b.rules = nil
	for _, id := range rm.All() {
		block, ok := rm.Get(id)
		if !ok || !hasClass(block, "build") {
			continue
		}
		creates := attrStringList(block, "creates")
		target := id.Name.Name
		if len(creates) > 0 {
			target = creates[0]
		}
		b.rules = append(b.rules, buildRule{
			target:   target,
			requires: attrStringList(block, "requires"),
			recipe:   block.Source,
		})
	}
	return nil
}

func (b *Build) OnTangle(_ config.Config, _ *refs.ReferenceMap, tx TxWriter) error {
	if len(b.rules) == 0 {
		return nil
	}
	var out strings.Builder
	out.WriteString("# Generated by entangled from `.build`-tagged fragments.\n")
	for _, r := range b.rules {
		out.WriteString(r.target)
		out.WriteString(":")
		for _, dep := range r.requires {
			out.WriteString(" " + dep)
		}
		out.WriteString("\n")
		for _, line := range refs.SplitLines(r.recipe) {
			out.WriteString("\t" + line + "\n")
		}
	}
	return tx.WriteDerived("Makefile", []byte(out.String()), nil)
}

func hasClass(block *refs.CodeBlock, class string) bool {
	for _, c := range refs.GetClasses(block.Properties) {
		if c == class {
			return true
		}
	}
	return false
}

func attrString(block *refs.CodeBlock, key string) string {
	s, _ := refs.GetAttributeString(block.Properties, key)
	return s
}

func attrStringList(block *refs.CodeBlock, key string) []string {
	v, ok := refs.GetAttribute(block.Properties, key)
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case string:
		return []string{vv}
	default:
		return nil
	}
}
