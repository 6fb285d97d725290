// Package models defines the domain types for notegenius.
package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// NoteType is a display hint; it is not enforced against the content.
type NoteType string

const (
	TypeNote      NoteType = "note"
	TypeChecklist NoteType = "checklist"
	TypeTask      NoteType = "task"
)

// Valid reports whether t is one of the known note types.
func (t NoteType) Valid() bool {
	switch t {
	case TypeNote, TypeChecklist, TypeTask:
		return true
	}
	return false
}

// DefaultFolder is used when a note is created without a folder.
const DefaultFolder = "General"

// FolderPlaceholderTag marks the empty note that keeps a new folder listed.
const FolderPlaceholderTag = "folder-placeholder"

// Note is one user document. Content is the single source of truth for
// structure: tasks and statistics are always derived from it.
type Note struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Tags        []string   `json:"tags"`
	Folder      string     `json:"folder"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	IsLocked    bool       `json:"is_locked"`
	IsPrivate   bool       `json:"is_private"`
	Reminder    *time.Time `json:"reminder,omitempty"`
	Type        NoteType   `json:"type"`
	AIGenerated bool       `json:"ai_generated"`
}

// NewNote returns a note with a fresh id and both timestamps set to now.
func NewNote(title, content string) *Note {
	now := time.Now()
	return &Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      []string{},
		Folder:    DefaultFolder,
		CreatedAt: now,
		UpdatedAt: now,
		Type:      TypeNote,
	}
}

// SetContent replaces the buffer.
func (n *Note) SetContent(text string) {
	n.Content = text
	n.touch()
}

// SetTitle replaces the title.
func (n *Note) SetTitle(title string) {
	n.Title = title
	n.touch()
}

// SetTags replaces the tag list. Blank and duplicate entries are dropped
// so the ordered-set invariant holds regardless of the input.
func (n *Note) SetTags(tags []string) {
	out := []string{}
	for _, t := range tags {
		out = AddTag(out, t)
	}
	n.Tags = out
	n.touch()
}

// AddTag appends candidate and reports whether the tag list changed.
func (n *Note) AddTag(candidate string) bool {
	next := AddTag(n.Tags, candidate)
	if len(next) == len(n.Tags) {
		return false
	}
	n.Tags = next
	n.touch()
	return true
}

// RemoveTag drops target and reports whether the tag list changed.
func (n *Note) RemoveTag(target string) bool {
	next := RemoveTag(n.Tags, target)
	if len(next) == len(n.Tags) {
		return false
	}
	n.Tags = next
	n.touch()
	return true
}

// MoveTo places the note in folder.
func (n *Note) MoveTo(folder string) {
	n.Folder = folder
	n.touch()
}

// SetPrivate sets the privacy flag.
func (n *Note) SetPrivate(private bool) {
	n.IsPrivate = private
	n.touch()
}

// SetLocked sets the lock flag.
func (n *Note) SetLocked(locked bool) {
	n.IsLocked = locked
	n.touch()
}

// SetType sets the display type.
func (n *Note) SetType(t NoteType) {
	n.Type = t
	n.touch()
}

// SetReminder sets or clears (nil) the reminder.
func (n *Note) SetReminder(at *time.Time) {
	n.Reminder = at
	n.touch()
}

// touch refreshes UpdatedAt. The timestamp strictly increases on every
// mutation and never precedes CreatedAt.
func (n *Note) touch() {
	now := time.Now()
	if now.Before(n.CreatedAt) {
		now = n.CreatedAt
	}
	if !now.After(n.UpdatedAt) {
		now = n.UpdatedAt.Add(time.Nanosecond)
	}
	n.UpdatedAt = now
}

// SnapshotForSave returns the fields an auto-save collaborator persists.
func (n *Note) SnapshotForSave() SaveSnapshot {
	return SaveSnapshot{
		Title:     n.Title,
		Content:   n.Content,
		Tags:      slices.Clone(n.Tags),
		UpdatedAt: n.UpdatedAt,
	}
}

// Clone returns a deep copy of n.
func (n *Note) Clone() *Note {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if n.Reminder != nil {
		r := *n.Reminder
		c.Reminder = &r
	}
	return &c
}

// SaveSnapshot is the view of a note handed to the auto-save collaborator.
type SaveSnapshot struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a checklist item derived from a note's content. Its position is
// its ordinal among the checklist lines of the buffer.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NoteMetadata is a lightweight representation returned by storage listings.
type NoteMetadata struct {
	ID        string    `json:"id"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
