package coderead

import (
	"testing"

	"github.com/entangled/entangled-go/internal/apperr"
	"github.com/entangled/entangled-go/internal/refs"
)

func TestStitchRecoversEditedBody(t *testing.T) {
	t.Parallel()
	rm := refs.New()
	id := refs.ReferenceId{Name: refs.ReferenceName{Name: "hello.py"}, File: "input.md", Ord: 0}
	if err := rm.Set(id, &refs.CodeBlock{Source: "print(\"hi\")\n"}); err != nil {
		t.Fatal(err)
	}

	tangled := "# ~/~ begin <<input.md#hello.py>>[init]\nprint(\"bye\")\n# ~/~ end\n"
	if err := Read(rm, "hello.py", tangled); err != nil {
		t.Fatal(err)
	}

	block, _ := rm.Get(id)
	if block.Source != "print(\"bye\")\n" {
		t.Fatalf("Source = %q, want %q", block.Source, "print(\"bye\")\n")
	}
}

func TestDiscardsUnmatchedPreamble(t *testing.T) {
	t.Parallel()
	rm := refs.New()
	id := refs.ReferenceId{Name: refs.ReferenceName{Name: "hello.py"}, File: "input.md", Ord: 0}
	if err := rm.Set(id, &refs.CodeBlock{Source: "old\n"}); err != nil {
		t.Fatal(err)
	}

	tangled := "#!/usr/bin/env python\n# ~/~ begin <<input.md#hello.py>>[init]\nnew\n# ~/~ end\n"
	if err := Read(rm, "hello.py", tangled); err != nil {
		t.Fatal(err)
	}

	block, _ := rm.Get(id)
	if block.Source != "new\n" {
		t.Fatalf("Source = %q, want %q (shebang line must not leak into the fragment body)", block.Source, "new\n")
	}
}

func TestNestedReferenceBecomesPlaceholder(t *testing.T) {
	t.Parallel()
	rm := refs.New()
	outer := refs.ReferenceId{Name: refs.ReferenceName{Name: "outer"}, File: "x.md", Ord: 0}
	inner := refs.ReferenceId{Name: refs.ReferenceName{Name: "inner"}, File: "x.md", Ord: 0}
	if err := rm.Set(outer, &refs.CodeBlock{Source: "old outer\n"}); err != nil {
		t.Fatal(err)
	}
	if err := rm.Set(inner, &refs.CodeBlock{Source: "old inner\n"}); err != nil {
		t.Fatal(err)
	}

	tangled := "" +
		"# ~/~ begin <<x.md#outer>>[init]\n" +
		"before\n" +
		"    # ~/~ begin <<x.md#inner>>[init]\n" +
		"    new inner body\n" +
		"    # ~/~ end\n" +
		"after\n" +
		"# ~/~ end\n"
	if err := Read(rm, "x.md", tangled); err != nil {
		t.Fatal(err)
	}

	outerBlock, _ := rm.Get(outer)
	want := "before\n    <<inner>>\nafter\n"
	if outerBlock.Source != want {
		t.Fatalf("outer Source = %q, want %q", outerBlock.Source, want)
	}

	innerBlock, _ := rm.Get(inner)
	if innerBlock.Source != "new inner body\n" {
		t.Fatalf("inner Source = %q, want %q", innerBlock.Source, "new inner body\n")
	}
}

func TestNestedMultiBlockReferenceEmittedOnlyOnce(t *testing.T) {
	t.Parallel()
	rm := refs.New()
	outer := refs.ReferenceId{Name: refs.ReferenceName{Name: "outer"}, File: "x.md", Ord: 0}
	f0 := refs.ReferenceId{Name: refs.ReferenceName{Name: "f"}, File: "x.md", Ord: 0}
	f1 := refs.ReferenceId{Name: refs.ReferenceName{Name: "f"}, File: "x.md", Ord: 1}
	if err := rm.Set(outer, &refs.CodeBlock{Source: "old outer\n"}); err != nil {
		t.Fatal(err)
	}
	if err := rm.Set(f0, &refs.CodeBlock{Source: "old f0\n"}); err != nil {
		t.Fatal(err)
	}
	if err := rm.Set(f1, &refs.CodeBlock{Source: "old f1\n"}); err != nil {
		t.Fatal(err)
	}

	// A single `<<f>>` line in outer's source tangles into two back-to-back
	// nested blocks, one per block of the multi-block fragment `f`.
	tangled := "" +
		"# ~/~ begin <<x.md#outer>>[init]\n" +
		"before\n" +
		"# ~/~ begin <<x.md#f>>[init]\n" +
		"new f0\n" +
		"# ~/~ end\n" +
		"# ~/~ begin <<x.md#f>>[1]\n" +
		"new f1\n" +
		"# ~/~ end\n" +
		"after\n" +
		"# ~/~ end\n"
	if err := Read(rm, "x.md", tangled); err != nil {
		t.Fatal(err)
	}

	outerBlock, _ := rm.Get(outer)
	want := "before\n<<f>>\nafter\n"
	if outerBlock.Source != want {
		t.Fatalf("outer Source = %q, want %q (the reference must be re-emitted once, not once per block)", outerBlock.Source, want)
	}

	f0Block, _ := rm.Get(f0)
	if f0Block.Source != "new f0\n" {
		t.Fatalf("f0 Source = %q, want %q", f0Block.Source, "new f0\n")
	}
	f1Block, _ := rm.Get(f1)
	if f1Block.Source != "new f1\n" {
		t.Fatalf("f1 Source = %q, want %q", f1Block.Source, "new f1\n")
	}
}

func TestMismatchedCloseIndentIsIndentationError(t *testing.T) {
	t.Parallel()
	rm := refs.New()
	id := refs.ReferenceId{Name: refs.ReferenceName{Name: "f"}, File: "x.md", Ord: 0}
	if err := rm.Set(id, &refs.CodeBlock{Source: "old\n"}); err != nil {
		t.Fatal(err)
	}

	tangled := "# ~/~ begin <<x.md#f>>[init]\nbody\n  # ~/~ end\n"
	err := Read(rm, "x.md", tangled)
	if _, ok := err.(*apperr.IndentationError); !ok {
		t.Fatalf("error = %v (%T), want *apperr.IndentationError", err, err)
	}
}

func TestOrdInitResolvesToZero(t *testing.T) {
	t.Parallel()
	rm := refs.New()
	id := refs.ReferenceId{Name: refs.ReferenceName{Name: "f"}, File: "x.md", Ord: 0}
	if err := rm.Set(id, &refs.CodeBlock{Source: "old\n"}); err != nil {
		t.Fatal(err)
	}

	tangled := "# ~/~ begin <<x.md#f>>[init]\nnew\n# ~/~ end\n"
	if err := Read(rm, "x.md", tangled); err != nil {
		t.Fatal(err)
	}
	block, _ := rm.Get(id)
	if block.Source != "new\n" {
		t.Fatalf("Source = %q, want %q", block.Source, "new\n")
	}
}
