// Package noteservice coordinates editor sessions, the note store and the
// index. Each note has at most one live editor.Session; operations on a
// note are serialised by a per-note mutex and apply in request order.
// Buffer edits update the index immediately while the file write is left
// to the configured Scheduler (auto-save).
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/checksum"
	"github.com/starford/notegenius/internal/editor"
	"github.com/starford/notegenius/internal/history"
	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/parser"
	"github.com/starford/notegenius/internal/storage"
	"github.com/starford/notegenius/internal/tasks"
	"github.com/starford/notegenius/internal/textstats"
)

// NoteDetail is the full representation of a note together with its
// derived views.
type NoteDetail struct {
	models.Note
	Checksum string          `json:"checksum"`
	Tasks    []models.Task   `json:"tasks"`
	Stats    textstats.Stats `json:"stats"`
	History  history.State   `json:"history"`
	CanUndo  bool            `json:"can_undo"`
	CanRedo  bool            `json:"can_redo"`
	Unsaved  bool            `json:"unsaved"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Folder        string          `json:"folder"`
	Type          models.NoteType `json:"type"`
	Tags          []string        `json:"tags"`
	Checksum      string          `json:"checksum"`
	IsPrivate     bool            `json:"is_private"`
	IsLocked      bool            `json:"is_locked"`
	AIGenerated   bool            `json:"ai_generated"`
	Reminder      *time.Time      `json:"reminder,omitempty"`
	TaskTotal     int             `json:"task_total"`
	TaskCompleted int             `json:"task_completed"`
	WordCount     int             `json:"word_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Publisher receives note change notifications. *sse.Broker satisfies it.
type Publisher interface {
	PublishNoteEvent(kind, id string, tasksChanged bool)
}

// Scheduler defers persisting a note. The scheduler later calls Flush.
type Scheduler interface {
	Schedule(id string)
}

// Option configures a Service.
type Option func(*Service)

// WithHistoryLimit bounds the undo history of every session.
func WithHistoryLimit(n int) Option {
	return func(s *Service) { s.historyLimit = n }
}

// WithPublisher sets the change notification sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now for aggregates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type entry struct {
	mu      sync.Mutex
	session *editor.Session
	savedAt time.Time // UpdatedAt of the last persisted snapshot
	deleted bool
}

func (e *entry) dirty() bool {
	return e.session.Note().SnapshotForSave().UpdatedAt.After(e.savedAt)
}

// Service coordinates sessions, storage and index operations.
type Service struct {
	store        storage.Provider
	db           index.NoteIndex
	logger       *slog.Logger
	historyLimit int
	publisher    Publisher
	now          func() time.Time

	schedMu   sync.RWMutex
	scheduler Scheduler

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewService creates a new note service.
func NewService(store storage.Provider, db index.NoteIndex, opts ...Option) *Service {
	s := &Service{
		store:        store,
		db:           db,
		logger:       slog.Default(),
		historyLimit: history.DefaultLimit,
		now:          time.Now,
		sessions:     make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetScheduler installs the auto-save scheduler. Without one every edit is
// written through immediately.
func (s *Service) SetScheduler(sched Scheduler) {
	s.schedMu.Lock()
	s.scheduler = sched
	s.schedMu.Unlock()
}

// CreateInput holds the fields of a new note.
type CreateInput struct {
	Title       string
	Content     string
	Tags        []string
	Folder      string
	Type        models.NoteType
	Reminder    *time.Time
	IsPrivate   bool
	IsLocked    bool
	AIGenerated bool
}

// Create writes a new note, indexes it and opens its session.
func (s *Service) Create(ctx context.Context, in CreateInput) (*NoteDetail, error) {
	if in.Type != "" && !in.Type.Valid() {
		return nil, fmt.Errorf("noteservice: unknown type %q: %w", in.Type, apperr.ErrInvalidInput)
	}
	n := models.NewNote(strings.TrimSpace(in.Title), in.Content)
	if n.Title == "" {
		n.Title = parser.UntitledTitle
	}
	for _, t := range in.Tags {
		n.Tags = models.AddTag(n.Tags, t)
	}
	if f := strings.TrimSpace(in.Folder); f != "" {
		n.Folder = f
	}
	if in.Type != "" {
		n.Type = in.Type
	}
	n.Reminder = in.Reminder
	n.IsPrivate = in.IsPrivate
	n.IsLocked = in.IsLocked
	n.AIGenerated = in.AIGenerated
	return s.CreateNote(ctx, n)
}

// CreateNote persists a note built elsewhere, such as an accepted
// assistant response, and opens its session. n must have an id.
func (s *Service) CreateNote(_ context.Context, n *models.Note) (*NoteDetail, error) {
	if n.ID == "" {
		return nil, fmt.Errorf("noteservice: note without id: %w", apperr.ErrInvalidInput)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	e := &entry{session: editor.NewSession(n, s.historyLimit)}
	if err := s.persist(e); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessions[n.ID] = e
	s.mu.Unlock()

	s.publish(index.KindCreated, n.ID, len(e.session.Tasks()) > 0)
	s.logger.Debug("note created", slog.String("id", n.ID))
	return s.detail(e)
}

// Get returns a note with its derived views.
func (s *Service) Get(_ context.Context, id string) (*NoteDetail, error) {
	e, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return s.detail(e)
}

// UpdateInput holds a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title         *string
	Content       *string
	Tags          []string
	Folder        *string
	Type          *models.NoteType
	Reminder      *time.Time
	ClearReminder bool
	IsPrivate     *bool
	IsLocked      *bool
}

// Update applies in and saves immediately. A non-empty ifMatch must equal
// the note's current checksum.
func (s *Service) Update(_ context.Context, id string, in UpdateInput, ifMatch string) (*NoteDetail, error) {
	if in.Type != nil && !in.Type.Valid() {
		return nil, fmt.Errorf("noteservice: unknown type %q: %w", *in.Type, apperr.ErrInvalidInput)
	}
	e, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	current, err := parser.Marshal(e.session.Note())
	if err != nil {
		return nil, err
	}
	if !checksum.Match(ifMatch, current) {
		return nil, apperr.ErrConflict
	}

	n := e.session.Note()
	before := tasksOf(e)
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			title = parser.UntitledTitle
		}
		n.SetTitle(title)
	}
	if in.Content != nil {
		e.session.SetContent(*in.Content)
	}
	if in.Tags != nil {
		n.SetTags(in.Tags)
	}
	if in.Folder != nil {
		if f := strings.TrimSpace(*in.Folder); f != "" {
			n.MoveTo(f)
		}
	}
	if in.Type != nil {
		n.SetType(*in.Type)
	}
	if in.ClearReminder {
		n.SetReminder(nil)
	} else if in.Reminder != nil {
		r := *in.Reminder
		n.SetReminder(&r)
	}
	if in.IsPrivate != nil {
		n.SetPrivate(*in.IsPrivate)
	}
	if in.IsLocked != nil {
		n.SetLocked(*in.IsLocked)
	}

	if err := s.persist(e); err != nil {
		return nil, err
	}
	s.publish(index.KindUpdated, id, before != tasksOf(e))
	return s.detail(e)
}

// Delete removes a note from the index, the store and the session cache.
func (s *Service) Delete(_ context.Context, id string) error {
	e, err := s.lock(id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	hadTasks := tasksOf(e).Total > 0
	// Index first so the watcher does not report our own removal.
	if err := s.db.DeleteNote(id); err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	e.deleted = true
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.publish(index.KindDeleted, id, hadTasks)
	s.logger.Debug("note deleted", slog.String("id", id))
	return nil
}

// List returns one page of notes from the index.
func (s *Service) List(_ context.Context, q index.ListQuery) ([]NoteListItem, int, error) {
	if q.Now.IsZero() {
		q.Now = s.now()
	}
	rows, total, err := s.db.ListNotes(q)
	if err != nil {
		return nil, 0, err
	}
	return listItems(rows), total, nil
}

// Flush persists the note if it has unsaved changes. Notes that are not
// open or were deleted are ignored.
func (s *Service) Flush(_ context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || !e.dirty() {
		return nil
	}
	return s.persist(e)
}

// FlushAll persists every note with unsaved changes.
func (s *Service) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := s.Flush(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// ExternalChange reacts to an edit made outside this process, as reported
// by the index watcher. A clean session is reloaded from disk and starts a
// new history; a session with unsaved changes keeps them and wins on the
// next save.
func (s *Service) ExternalChange(kind, id string) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok && kind == index.KindDeleted {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		switch {
		case kind == index.KindDeleted:
			e.deleted = true
		case e.dirty():
			s.logger.Warn("external change ignored, unsaved edits pending", slog.String("id", id))
			if err := s.reindex(e); err != nil {
				s.logger.Warn("reindex failed", slog.String("id", id), slog.String("error", err.Error()))
			}
		default:
			if n, err := s.load(id); err == nil {
				e.session = editor.NewSession(n, s.historyLimit)
				e.savedAt = n.UpdatedAt
			} else {
				s.logger.Warn("reload failed", slog.String("id", id), slog.String("error", err.Error()))
			}
		}
		e.mu.Unlock()
	}
	s.publish(kind, id, true)
}

// lock returns the entry for id with its mutex held, loading the note from
// the store on first use.
func (s *Service) lock(id string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if !ok {
		n, err := s.load(id)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		e = &entry{session: editor.NewSession(n, s.historyLimit), savedAt: n.UpdatedAt}
		s.sessions[id] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return nil, fmt.Errorf("noteservice: note %s: %w", id, apperr.ErrNotFound)
	}
	return e, nil
}

func (s *Service) load(id string) (*models.Note, error) {
	data, err := s.store.Read(id)
	if err != nil {
		return nil, err
	}
	modTime, err := s.store.ModTime(id)
	if err != nil {
		modTime = s.now()
	}
	return parser.Parse(id, data, modTime)
}

// persist indexes and writes the note. The index goes first so the
// watcher sees a matching checksum for our own write.
func (s *Service) persist(e *entry) error {
	n := e.session.Note()
	data, err := parser.Marshal(n)
	if err != nil {
		return err
	}
	if err := s.db.UpsertNote(index.RowFromNote(n, checksum.Sum(data)), n.Content); err != nil {
		return err
	}
	if err := s.store.Write(n.ID, data); err != nil {
		return err
	}
	e.savedAt = n.SnapshotForSave().UpdatedAt
	return nil
}

// reindex refreshes the index row from the in-memory note.
func (s *Service) reindex(e *entry) error {
	n := e.session.Note()
	data, err := parser.Marshal(n)
	if err != nil {
		return err
	}
	return s.db.UpsertNote(index.RowFromNote(n, checksum.Sum(data)), n.Content)
}

// changed finishes an edit: the index is refreshed and the write is handed
// to the scheduler, or done immediately when none is set.
func (s *Service) changed(e *entry, tasksChanged bool) error {
	id := e.session.Note().ID
	s.schedMu.RLock()
	sched := s.scheduler
	s.schedMu.RUnlock()

	if sched == nil {
		if err := s.persist(e); err != nil {
			return err
		}
	} else {
		if err := s.reindex(e); err != nil {
			return err
		}
		sched.Schedule(id)
	}
	s.publish(index.KindUpdated, id, tasksChanged)
	return nil
}

func (s *Service) publish(kind, id string, tasksChanged bool) {
	if s.publisher != nil {
		s.publisher.PublishNoteEvent(kind, id, tasksChanged)
	}
}

func (s *Service) detail(e *entry) (*NoteDetail, error) {
	n := e.session.Note()
	data, err := parser.Marshal(n)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		Note:     *n.Clone(),
		Checksum: checksum.Sum(data),
		Tasks:    e.session.Tasks(),
		Stats:    e.session.Stats(),
		History:  e.session.HistoryState(),
		CanUndo:  e.session.CanUndo(),
		CanRedo:  e.session.CanRedo(),
		Unsaved:  e.dirty(),
	}, nil
}

func tasksOf(e *entry) tasks.Counts {
	return tasks.CountsOf(e.session.Content(), nil)
}

func listItems(rows []index.NoteRow) []NoteListItem {
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			ID:            r.ID,
			Title:         r.Title,
			Folder:        r.Folder,
			Type:          r.Type,
			Tags:          nonNilSlice(r.Tags),
			Checksum:      r.Checksum,
			IsPrivate:     r.IsPrivate,
			IsLocked:      r.IsLocked,
			AIGenerated:   r.AIGenerated,
			Reminder:      r.Reminder,
			TaskTotal:     r.TaskTotal,
			TaskCompleted: r.TaskCompleted,
			WordCount:     r.WordCount,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
		}
	}
	return items
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
