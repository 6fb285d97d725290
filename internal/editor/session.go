// Package editor ties a note to its edit history. A Session is the single
// value threaded through every editing operation; all buffer changes go
// through setContent so derived views are always recomputed from the same
// text.
package editor

import (
	"github.com/starford/notegenius/internal/history"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/tasks"
	"github.com/starford/notegenius/internal/textstats"
)

// Session is one logical editor over a note. It is not safe for concurrent
// use; callers serialise access per note.
type Session struct {
	note    *models.Note
	history *history.History
}

// NewSession starts editing note with an empty history of the given limit.
func NewSession(note *models.Note, historyLimit int) *Session {
	return &Session{note: note, history: history.New(historyLimit)}
}

// Note returns the edited note. The pointer is shared with the session.
func (s *Session) Note() *models.Note { return s.note }

// Content returns the current buffer.
func (s *Session) Content() string { return s.note.Content }

// SetContent replaces the buffer without recording history, as free-form
// typing does.
func (s *Session) SetContent(text string) {
	s.setContent(text)
}

// Tasks returns the checklist items of the current buffer.
func (s *Session) Tasks() []models.Task { return tasks.Parse(s.note.Content) }

// Stats returns statistics of the current buffer.
func (s *Session) Stats() textstats.Stats { return textstats.Analyze(s.note.Content) }

// ToggleTask flips the task at index.
func (s *Session) ToggleTask(index int) error {
	next, err := tasks.Toggle(s.note.Content, index)
	if err != nil {
		return err
	}
	s.setContent(next)
	return nil
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	text, ok := s.history.Undo(s.note.Content)
	if ok {
		s.setContent(text)
	}
	return ok
}

// Redo re-applies the next snapshot. It reports false when there is nothing
// to redo.
func (s *Session) Redo() bool {
	text, ok := s.history.Redo(s.note.Content)
	if ok {
		s.setContent(text)
	}
	return ok
}

// HistoryState exposes the undo/redo state for UI toolbars.
func (s *Session) HistoryState() history.State { return s.history.State() }

// CanUndo reports whether Undo would change the buffer.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change the buffer.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// AddTag adds a tag to the note.
func (s *Session) AddTag(tag string) bool { return s.note.AddTag(tag) }

// RemoveTag removes a tag from the note.
func (s *Session) RemoveTag(tag string) bool { return s.note.RemoveTag(tag) }

// record snapshots the buffer before a reversible edit and applies next.
func (s *Session) record(next string) {
	s.history.RecordBeforeEdit(s.note.Content)
	s.setContent(next)
}

func (s *Session) setContent(text string) {
	s.note.SetContent(text)
}
