package history

import (
	"image"
	"testing"

	"github.com/example/sketchboard/internal/surface"
)

func snap(tag string) surface.Snapshot {
	return surface.SnapshotFromPNG([]byte(tag), image.Rect(0, 0, 1, 1))
}

func tag(s surface.Snapshot) string { return string(s.PNG()) }

func TestRecordClearsRedo(t *testing.T) {
	m := New(0)
	m.Record(snap("a"))
	m.Record(snap("b"))
	if _, ok := m.Undo(snap("cur")); !ok {
		t.Fatal("Undo failed")
	}
	if !m.CanRedo() {
		t.Fatal("expected redo entry")
	}
	m.Record(snap("c"))
	if m.CanRedo() || m.RedoDepth() != 0 {
		t.Fatalf("Record left %d redo entries", m.RedoDepth())
	}
}

func TestUndoRedoOrder(t *testing.T) {
	m := New(0)
	m.Record(snap("s1"))
	m.Record(snap("s2"))

	target, ok := m.Undo(snap("s3"))
	if !ok || tag(target) != "s2" {
		t.Fatalf("Undo = %q ok=%v", tag(target), ok)
	}
	target, ok = m.Redo(snap("s2"))
	if !ok || tag(target) != "s3" {
		t.Fatalf("Redo = %q ok=%v", tag(target), ok)
	}
	if m.UndoDepth() != 2 || m.RedoDepth() != 0 {
		t.Fatalf("depths undo=%d redo=%d", m.UndoDepth(), m.RedoDepth())
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	m := New(0)
	if _, ok := m.Undo(snap("x")); ok {
		t.Fatal("Undo on empty stack succeeded")
	}
	if _, ok := m.Redo(snap("x")); ok {
		t.Fatal("Redo on empty stack succeeded")
	}
	if m.UndoDepth() != 0 || m.RedoDepth() != 0 {
		t.Fatal("no-op changed the stacks")
	}
}

func TestBoundedDropsOldest(t *testing.T) {
	m := New(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		m.Record(snap(s))
	}
	if m.UndoDepth() != 3 {
		t.Fatalf("UndoDepth = %d, want 3", m.UndoDepth())
	}
	var got []string
	for m.CanUndo() {
		s, _ := m.Undo(snap("cur"))
		got = append(got, tag(s))
	}
	want := []string{"e", "d", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("undo order %v, want %v", got, want)
		}
	}
	if m.RedoDepth() != 3 {
		t.Fatalf("RedoDepth = %d, want bounded 3", m.RedoDepth())
	}
}

func TestAbandon(t *testing.T) {
	m := New(0)
	m.Record(snap("a"))
	m.Record(snap("b"))

	m.Undo(snap("cur"))
	got, ok := m.Abandon(Undo)
	if !ok || tag(got) != "cur" {
		t.Fatalf("Abandon(Undo) = %q, %v", tag(got), ok)
	}
	if m.RedoDepth() != 0 || m.UndoDepth() != 1 {
		t.Fatalf("after Abandon(Undo) undo=%d redo=%d", m.UndoDepth(), m.RedoDepth())
	}

	m.Redo(snap("x"))
	if m.UndoDepth() != 1 {
		t.Fatal("Redo with empty stack pushed onto undo")
	}
	m.Undo(snap("cur"))
	m.Redo(snap("a"))
	got, ok = m.Abandon(Redo)
	if !ok || tag(got) != "a" {
		t.Fatalf("Abandon(Redo) = %q, %v", tag(got), ok)
	}
	if m.UndoDepth() != 0 || m.RedoDepth() != 0 {
		t.Fatalf("after Abandon(Redo) undo=%d redo=%d", m.UndoDepth(), m.RedoDepth())
	}
	if _, ok := m.Abandon(Undo); ok {
		t.Fatal("Abandon on empty stack reported an entry")
	}
}

func TestAbandonKeepsSupersededTarget(t *testing.T) {
	m := New(0)
	m.Record(snap("t0"))
	m.Record(snap("t1"))

	m.Undo(snap("s"))          // targets t1
	m.Undo(snap("t1"))         // superseding undo targets t0
	got, ok := m.Abandon(Undo) // t0 failed
	if !ok || tag(got) != "t1" {
		t.Fatalf("Abandon = %q, %v, want t1", tag(got), ok)
	}
	if m.RedoDepth() != 1 || m.UndoDepth() != 0 {
		t.Fatalf("undo=%d redo=%d", m.UndoDepth(), m.RedoDepth())
	}
}

func TestReset(t *testing.T) {
	m := New(5)
	m.Record(snap("a"))
	m.Undo(snap("b"))
	m.Reset()
	if m.CanUndo() || m.CanRedo() {
		t.Fatal("Reset left entries")
	}
	if m.Limit() != 5 {
		t.Fatalf("Limit = %d", m.Limit())
	}
}
