package noteservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/editor"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/textstats"
)

// edit runs fn on the session of id. When fn changes the note the edit is
// finished through changed; a failing fn leaves everything untouched.
func (s *Service) edit(id string, fn func(*editor.Session) error) (*NoteDetail, error) {
	e, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	stamp := e.session.Note().UpdatedAt
	before := tasksOf(e)
	if err := fn(e.session); err != nil {
		return nil, err
	}
	if e.session.Note().UpdatedAt.After(stamp) {
		if err := s.changed(e, before != tasksOf(e)); err != nil {
			return nil, err
		}
	}
	return s.detail(e)
}

// Tasks returns the checklist items of a note.
func (s *Service) Tasks(_ context.Context, id string) ([]models.Task, error) {
	e, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.session.Tasks(), nil
}

// Stats returns text statistics of a note.
func (s *Service) Stats(_ context.Context, id string) (textstats.Stats, error) {
	e, err := s.lock(id)
	if err != nil {
		return textstats.Stats{}, err
	}
	defer e.mu.Unlock()
	return e.session.Stats(), nil
}

// ToggleTask flips the task at index.
func (s *Service) ToggleTask(_ context.Context, id string, index int) (*NoteDetail, error) {
	return s.edit(id, func(sess *editor.Session) error {
		return sess.ToggleTask(index)
	})
}

// Undo restores the previous snapshot; a no-op when there is none.
func (s *Service) Undo(_ context.Context, id string) (*NoteDetail, error) {
	return s.edit(id, func(sess *editor.Session) error {
		sess.Undo()
		return nil
	})
}

// Redo re-applies the next snapshot; a no-op when there is none.
func (s *Service) Redo(_ context.Context, id string) (*NoteDetail, error) {
	return s.edit(id, func(sess *editor.Session) error {
		sess.Redo()
		return nil
	})
}

// Format applies a formatting action to a selection.
func (s *Service) Format(_ context.Context, id string, f editor.Format, sel editor.Selection) (*NoteDetail, error) {
	return s.edit(id, func(sess *editor.Session) error {
		return sess.ApplyFormat(f, sel)
	})
}

// Replace substitutes every occurrence of find and returns the count.
func (s *Service) Replace(_ context.Context, id, find, replacement string) (*NoteDetail, int, error) {
	var n int
	d, err := s.edit(id, func(sess *editor.Session) error {
		var err error
		n, err = sess.Replace(find, replacement)
		return err
	})
	return d, n, err
}

// Insert appends generated content to a note.
func (s *Service) Insert(_ context.Context, id string, kind editor.Insert, opts editor.InsertOptions) (*NoteDetail, error) {
	if opts.Now.IsZero() {
		opts.Now = s.now()
	}
	return s.edit(id, func(sess *editor.Session) error {
		return sess.InsertText(kind, opts)
	})
}

// AddTag adds a tag. Blank and duplicate tags are ignored.
func (s *Service) AddTag(_ context.Context, id, tag string) (*NoteDetail, error) {
	return s.edit(id, func(sess *editor.Session) error {
		sess.AddTag(tag)
		return nil
	})
}

// RemoveTag removes a tag.
func (s *Service) RemoveTag(_ context.Context, id, tag string) (*NoteDetail, error) {
	return s.edit(id, func(sess *editor.Session) error {
		sess.RemoveTag(tag)
		return nil
	})
}

// Move places a note in folder.
func (s *Service) Move(_ context.Context, id, folder string) (*NoteDetail, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil, fmt.Errorf("noteservice: folder is required: %w", apperr.ErrInvalidInput)
	}
	return s.edit(id, func(sess *editor.Session) error {
		if sess.Note().Folder != folder {
			sess.Note().MoveTo(folder)
		}
		return nil
	})
}

// SetPrivate sets the privacy flag.
func (s *Service) SetPrivate(_ context.Context, id string, private bool) (*NoteDetail, error) {
	return s.edit(id, func(sess *editor.Session) error {
		if sess.Note().IsPrivate != private {
			sess.Note().SetPrivate(private)
		}
		return nil
	})
}

// Dictate appends every chunk of src to a note. The note stays locked
// until src is exhausted. Chunks applied before a source error are kept.
func (s *Service) Dictate(ctx context.Context, id string, src editor.DictationSource) (int, error) {
	var (
		n       int
		dictErr error
	)
	if _, err := s.edit(id, func(sess *editor.Session) error {
		n, dictErr = sess.Dictate(ctx, src)
		return nil
	}); err != nil {
		return n, err
	}
	return n, dictErr
}
