package syncdecision

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/entangled/entangled-go/internal/filedb"
)

func trackedObservation(db *filedb.FileDB, path, digest string, present bool) Observation {
	db.Update(path, filedb.FileStat{Hexdigest: digest, Modified: time.Now()})
	return Observation{Path: path, Present: present, Digest: digest}
}

func TestDecideNothingWhenUnchanged(t *testing.T) {
	t.Parallel()
	db := filedb.New()
	src := trackedObservation(db, "input.md", "aaa", true)
	tgt := trackedObservation(db, "hello.py", "bbb", true)

	if got := Decide(db, src, []Observation{tgt}); got != Nothing {
		t.Fatalf("Decide = %v, want Nothing", got)
	}
}

func TestDecideTangleWhenSourceChanged(t *testing.T) {
	t.Parallel()
	db := filedb.New()
	db.Update("input.md", filedb.FileStat{Hexdigest: "old"})
	db.Update("hello.py", filedb.FileStat{Hexdigest: "bbb"})

	src := Observation{Path: "input.md", Present: true, Digest: "new"}
	tgt := Observation{Path: "hello.py", Present: true, Digest: "bbb"}

	if got := Decide(db, src, []Observation{tgt}); got != Tangle {
		t.Fatalf("Decide = %v, want Tangle", got)
	}
}

func TestDecideStitchWhenTargetChanged(t *testing.T) {
	t.Parallel()
	db := filedb.New()
	db.Update("input.md", filedb.FileStat{Hexdigest: "aaa"})
	db.Update("hello.py", filedb.FileStat{Hexdigest: "old"})

	src := Observation{Path: "input.md", Present: true, Digest: "aaa"}
	tgt := Observation{Path: "hello.py", Present: true, Digest: "new"}

	if got := Decide(db, src, []Observation{tgt}); got != Stitch {
		t.Fatalf("Decide = %v, want Stitch", got)
	}
}

func TestDecideConflictWhenBothChanged(t *testing.T) {
	t.Parallel()
	db := filedb.New()
	db.Update("input.md", filedb.FileStat{Hexdigest: "old-src"})
	db.Update("hello.py", filedb.FileStat{Hexdigest: "old-tgt"})

	src := Observation{Path: "input.md", Present: true, Digest: "new-src"}
	tgt := Observation{Path: "hello.py", Present: true, Digest: "new-tgt"}

	if got := Decide(db, src, []Observation{tgt}); got != Conflict {
		t.Fatalf("Decide = %v, want Conflict", got)
	}
}

func TestDecideTangleOnFirstSightOfNewSource(t *testing.T) {
	t.Parallel()
	db := filedb.New()
	src := Observation{Path: "input.md", Present: true, Digest: "aaa"}
	if got := Decide(db, src, nil); got != Tangle {
		t.Fatalf("Decide = %v, want Tangle for an untracked, present source", got)
	}
}

func TestLoopTicksImmediatelyAndRepeats(t *testing.T) {
	t.Parallel()
	var count int64
	l := NewLoop(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l.Start(ctx, func(ctx context.Context) error {
		atomic.AddInt64(&count, 1)
		return nil
	})
	if !l.Running() {
		t.Fatal("expected Running() after Start")
	}

	time.Sleep(35 * time.Millisecond)
	l.Stop()

	if l.Running() {
		t.Fatal("expected Running() == false after Stop")
	}
	if atomic.LoadInt64(&count) < 2 {
		t.Fatalf("count = %d, want at least 2 ticks (one immediate, one from the ticker)", count)
	}
}

func TestLoopStartTwiceIsNoop(t *testing.T) {
	t.Parallel()
	l := NewLoop(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int64
	tick := func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}
	l.Start(ctx, tick)
	l.Start(ctx, tick) // should be a no-op, not a second goroutine
	time.Sleep(10 * time.Millisecond)
	l.Stop()

	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("calls = %d, want exactly 1 (second Start should be a no-op)", calls)
	}
}
