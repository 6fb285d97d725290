package noteservice

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/tasks"
)

// Quick-added tasks and new folders land in fixed places.
const (
	TasksFolder = "Tasks"
	TaskTag     = "task"
	recentSpan  = 24 * time.Hour
)

// QuickAddTask creates a single-item checklist note in the Tasks folder.
func (s *Service) QuickAddTask(ctx context.Context, title string) (*NoteDetail, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("noteservice: task title is required: %w", apperr.ErrInvalidInput)
	}
	return s.Create(ctx, CreateInput{
		Title:   title,
		Content: tasks.Line(title, false),
		Tags:    []string{TaskTag},
		Folder:  TasksFolder,
		Type:    models.TypeChecklist,
	})
}

// TaskOverview is the aggregate task view with the notes passing a filter.
type TaskOverview struct {
	Summary tasks.Summary  `json:"summary"`
	Filter  tasks.Filter   `json:"filter"`
	Notes   []NoteListItem `json:"notes"`
}

// TaskSummary aggregates tasks across all public notes and lists the notes
// matching f.
func (s *Service) TaskSummary(_ context.Context, f tasks.Filter) (*TaskOverview, error) {
	now := s.now()
	counts, err := s.db.TaskCounts(false)
	if err != nil {
		return nil, err
	}
	rows, _, err := s.db.ListNotes(index.ListQuery{Tasks: f, Now: now, Limit: 500})
	if err != nil {
		return nil, err
	}
	return &TaskOverview{
		Summary: tasks.Summarize(counts, now),
		Filter:  f,
		Notes:   listItems(rows),
	}, nil
}

// Folders returns per-folder stats. Recent counts notes updated in the last
// day.
func (s *Service) Folders(_ context.Context, includePrivate bool) ([]index.FolderStat, error) {
	return s.db.Folders(includePrivate, s.now().Add(-recentSpan))
}

// CreateFolder makes an empty folder visible by creating its placeholder
// note.
func (s *Service) CreateFolder(ctx context.Context, name string) (*NoteDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("noteservice: folder name is required: %w", apperr.ErrInvalidInput)
	}
	existing, err := s.db.Folders(true, s.now())
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(existing, func(f index.FolderStat) bool { return f.Name == name }) {
		return nil, fmt.Errorf("noteservice: folder %q: %w", name, apperr.ErrAlreadyExists)
	}
	return s.Create(ctx, CreateInput{
		Title:   "Welcome to your new folder",
		Content: "This is your new folder: " + name + ". Start adding notes here!",
		Tags:    []string{models.FolderPlaceholderTag},
		Folder:  name,
		Type:    models.TypeNote,
	})
}

// Reminders lists the notes whose reminder falls on day, in day's location.
func (s *Service) Reminders(_ context.Context, day time.Time, includePrivate bool) ([]NoteListItem, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	rows, err := s.db.Reminders(from, from.AddDate(0, 0, 1), includePrivate)
	if err != nil {
		return nil, err
	}
	return listItems(rows), nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int, includePrivate bool) ([]index.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("noteservice: query is required: %w", apperr.ErrInvalidInput)
	}
	return s.db.Search(query, limit, includePrivate)
}
