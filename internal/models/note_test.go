package models

import (
	"slices"
	"testing"
	"time"
)

func TestNewNote(t *testing.T) {
	n := NewNote("Groceries", "- [ ] milk")
	if n.ID == "" {
		t.Fatal("expected generated id")
	}
	if !n.CreatedAt.Equal(n.UpdatedAt) {
		t.Errorf("created_at = %v, updated_at = %v, want equal", n.CreatedAt, n.UpdatedAt)
	}
	if n.Type != TypeNote || n.Folder != DefaultFolder {
		t.Errorf("type = %q folder = %q", n.Type, n.Folder)
	}
	if n.Tags == nil {
		t.Error("tags should be non-nil")
	}
	if other := NewNote("x", ""); other.ID == n.ID {
		t.Error("ids should be unique")
	}
}

func TestMutationsRefreshUpdatedAt(t *testing.T) {
	mutations := map[string]func(n *Note){
		"content": func(n *Note) { n.SetContent("new") },
		"title":   func(n *Note) { n.SetTitle("new") },
		"tags":    func(n *Note) { n.SetTags([]string{"x"}) },
		"add tag": func(n *Note) { n.AddTag("x") },
		"move":    func(n *Note) { n.MoveTo("Work") },
		"private": func(n *Note) { n.SetPrivate(true) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			n := NewNote("t", "c")
			before := n.UpdatedAt
			mutate(n)
			if !n.UpdatedAt.After(before) {
				t.Errorf("updated_at = %v, want after %v", n.UpdatedAt, before)
			}
			if n.UpdatedAt.Before(n.CreatedAt) {
				t.Error("updated_at precedes created_at")
			}
		})
	}
}

func TestTouchNeverPrecedesCreatedAt(t *testing.T) {
	n := NewNote("t", "c")
	future := time.Now().Add(time.Hour)
	n.CreatedAt = future
	n.UpdatedAt = future
	n.SetContent("x")
	if n.UpdatedAt.Before(n.CreatedAt) {
		t.Errorf("updated_at = %v precedes created_at = %v", n.UpdatedAt, n.CreatedAt)
	}
}

func TestTagNoOpsKeepUpdatedAt(t *testing.T) {
	n := NewNote("t", "c")
	n.AddTag("work")
	stamp := n.UpdatedAt
	if n.AddTag("work") {
		t.Error("duplicate tag reported as change")
	}
	if n.RemoveTag("absent") {
		t.Error("absent tag removal reported as change")
	}
	if !n.UpdatedAt.Equal(stamp) {
		t.Error("no-op tag edits should not touch updated_at")
	}
}

func TestSetTagsNormalises(t *testing.T) {
	n := NewNote("t", "c")
	n.SetTags([]string{" a ", "b", "a", ""})
	if !slices.Equal(n.Tags, []string{"a", "b"}) {
		t.Errorf("tags = %v, want [a b]", n.Tags)
	}
}

func TestSnapshotAndCloneAreIndependent(t *testing.T) {
	n := NewNote("t", "c")
	at := time.Now()
	n.SetReminder(&at)
	n.AddTag("a")

	snap := n.SnapshotForSave()
	clone := n.Clone()
	n.Tags[0] = "changed"
	*n.Reminder = at.Add(time.Hour)

	if snap.Tags[0] != "a" || clone.Tags[0] != "a" {
		t.Errorf("tags aliased: snapshot %v clone %v", snap.Tags, clone.Tags)
	}
	if !clone.Reminder.Equal(at) {
		t.Error("reminder aliased")
	}
	if snap.Content != "c" || !snap.UpdatedAt.Equal(n.UpdatedAt) {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNoteTypeValid(t *testing.T) {
	for _, typ := range []NoteType{TypeNote, TypeChecklist, TypeTask} {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	if NoteType("memo").Valid() {
		t.Error("memo should be invalid")
	}
}
