package history

import (
	"fmt"
	"testing"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New(0)
	t0, t1 := "original", "formatted"

	h.RecordBeforeEdit(t0)
	got, ok := h.Undo(t1)
	if !ok || got != t0 {
		t.Fatalf("Undo = %q, %v; want %q, true", got, ok, t0)
	}
	got, ok = h.Redo(got)
	if !ok || got != t1 {
		t.Fatalf("Redo = %q, %v; want %q, true", got, ok, t1)
	}
	got, ok = h.Undo(got)
	if !ok || got != t0 {
		t.Errorf("second Undo = %q, %v; want %q, true", got, ok, t0)
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New(5)
	if _, ok := h.Undo("x"); ok {
		t.Error("Undo on empty history should report false")
	}
	if _, ok := h.Redo("x"); ok {
		t.Error("Redo on empty history should report false")
	}
	if h.State() != StateClean {
		t.Errorf("state = %q, want clean", h.State())
	}
}

func TestHistoryBound(t *testing.T) {
	h := New(DefaultLimit)
	current := "v0"
	for i := 1; i <= 25; i++ {
		h.RecordBeforeEdit(current)
		current = fmt.Sprintf("v%d", i)
	}
	if u, _ := h.Len(); u != DefaultLimit {
		t.Fatalf("undo len = %d, want %d", u, DefaultLimit)
	}

	undone := 0
	for i := 0; i < DefaultLimit+1; i++ {
		text, ok := h.Undo(current)
		if !ok {
			break
		}
		current = text
		undone++
	}
	if undone != DefaultLimit {
		t.Errorf("undone = %d, want %d", undone, DefaultLimit)
	}
	// v0..v4 were evicted; the oldest reachable state is v5.
	if current != "v5" {
		t.Errorf("oldest state = %q, want v5", current)
	}
}

func TestRecordClearsRedo(t *testing.T) {
	h := New(10)
	h.RecordBeforeEdit("a")
	if _, ok := h.Undo("b"); !ok {
		t.Fatal("undo failed")
	}
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}
	h.RecordBeforeEdit("a")
	if h.CanRedo() {
		t.Error("new edit should discard redo history")
	}
	if _, ok := h.Redo("a"); ok {
		t.Error("redo after new edit should be a no-op")
	}
}

func TestRedoOrderAfterMultipleUndos(t *testing.T) {
	h := New(10)
	h.RecordBeforeEdit("one")
	h.RecordBeforeEdit("two")
	cur := "three"

	cur, _ = h.Undo(cur) // two
	cur, _ = h.Undo(cur) // one
	if cur != "one" {
		t.Fatalf("after undos cur = %q", cur)
	}
	cur, _ = h.Redo(cur)
	if cur != "two" {
		t.Errorf("first redo = %q, want two", cur)
	}
	cur, _ = h.Redo(cur)
	if cur != "three" {
		t.Errorf("second redo = %q, want three", cur)
	}
	if _, ok := h.Redo(cur); ok {
		t.Error("redo stack should be exhausted")
	}
}

func TestState(t *testing.T) {
	h := New(3)
	h.RecordBeforeEdit("a")
	if h.State() != StateUndoAvailable {
		t.Errorf("state = %q, want undo_available", h.State())
	}
	h.Undo("b")
	if h.State() != StateRedoAvailable {
		t.Errorf("state = %q, want redo_available", h.State())
	}
	h.Reset()
	if h.State() != StateClean {
		t.Errorf("state = %q, want clean", h.State())
	}
}

func TestRedoRespectsLimit(t *testing.T) {
	h := New(2)
	h.RecordBeforeEdit("a")
	h.RecordBeforeEdit("b")
	cur, _ := h.Undo("c") // undo: [a], redo: [c]
	cur, _ = h.Redo(cur)  // undo: [a b]
	h.RecordBeforeEdit(cur)
	if u, _ := h.Len(); u != 2 {
		t.Errorf("undo len = %d, want 2", u)
	}
}
