package editor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/history"
	"github.com/starford/notegenius/internal/models"
)

func newSession(t *testing.T, content string) *Session {
	t.Helper()
	return NewSession(models.NewNote("test", content), 0)
}

func TestToggleTaskUpdatesDerivedViews(t *testing.T) {
	s := newSession(t, "- [ ] Buy milk\n- [x] Pay rent\n- [ ] Call Sam")
	before := s.Note().UpdatedAt

	if err := s.ToggleTask(2); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	got := s.Tasks()
	if !got[2].Completed {
		t.Errorf("task 2 = %+v, want completed", got[2])
	}
	if !s.Note().UpdatedAt.After(before) {
		t.Error("toggle should refresh updated_at")
	}
	if s.CanUndo() {
		t.Error("toggles are not recorded in history")
	}
}

func TestToggleTaskOutOfRange(t *testing.T) {
	s := newSession(t, "no tasks here")
	stamp := s.Note().UpdatedAt
	err := s.ToggleTask(0)
	if !errors.Is(err, apperr.ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if s.Content() != "no tasks here" || !s.Note().UpdatedAt.Equal(stamp) {
		t.Error("failed toggle must not touch the note")
	}
}

func TestUndoRedoThroughSession(t *testing.T) {
	s := newSession(t, "hello world")
	if err := s.ApplyFormat(FormatBold, Selection{Start: 0, End: 5}); err != nil {
		t.Fatalf("ApplyFormat: %v", err)
	}
	if s.Content() != "**hello** world" {
		t.Fatalf("content = %q", s.Content())
	}
	if s.HistoryState() != history.StateUndoAvailable {
		t.Errorf("state = %q", s.HistoryState())
	}

	if !s.Undo() || s.Content() != "hello world" {
		t.Fatalf("after undo content = %q", s.Content())
	}
	if !s.Redo() || s.Content() != "**hello** world" {
		t.Fatalf("after redo content = %q", s.Content())
	}
	if s.Redo() {
		t.Error("second redo should report false")
	}
}

func TestTypingIsNotRecorded(t *testing.T) {
	s := newSession(t, "a")
	s.SetContent("ab")
	s.SetContent("abc")
	if s.Undo() {
		t.Error("free-form typing should not be undoable")
	}
	if s.Content() != "abc" {
		t.Errorf("content = %q", s.Content())
	}
}

func TestStatsFollowContent(t *testing.T) {
	s := newSession(t, "")
	if s.Stats().Words != 0 {
		t.Fatal("expected empty stats")
	}
	s.SetContent("Hello world. This is a test.")
	if got := s.Stats(); got.Words != 6 || got.Sentences != 2 {
		t.Errorf("stats = %+v", got)
	}
}

func TestSessionTags(t *testing.T) {
	s := newSession(t, "")
	if !s.AddTag(" work ") || s.AddTag("work") {
		t.Error("unexpected AddTag result")
	}
	if !s.RemoveTag("work") || len(s.Note().Tags) != 0 {
		t.Errorf("tags = %v", s.Note().Tags)
	}
}

type sliceSource struct {
	chunks []string
	err    error
}

func (s *sliceSource) Next(context.Context) (string, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func TestDictate(t *testing.T) {
	s := newSession(t, "Notes:")
	n, err := s.Dictate(context.Background(), &sliceSource{chunks: []string{"first thought", "  ", "second"}})
	if err != nil {
		t.Fatalf("Dictate: %v", err)
	}
	if n != 2 {
		t.Errorf("applied = %d, want 2", n)
	}
	if s.Content() != "Notes: first thought second" {
		t.Errorf("content = %q", s.Content())
	}
}

func TestDictateSourceError(t *testing.T) {
	s := newSession(t, "")
	boom := errors.New("mic unplugged")
	n, err := s.Dictate(context.Background(), &sliceSource{chunks: []string{"hi"}, err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if n != 1 || s.Content() != " hi" {
		t.Errorf("n = %d content = %q", n, s.Content())
	}
}

func TestDictateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSession(t, "")
	if _, err := s.Dictate(ctx, &sliceSource{chunks: []string{"x"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLineSource(t *testing.T) {
	s := newSession(t, "Log")
	n, err := s.Dictate(context.Background(), NewLineSource(strings.NewReader("one\ntwo\n")))
	if err != nil || n != 2 {
		t.Fatalf("Dictate = %d, %v", n, err)
	}
	if s.Content() != "Log one two" {
		t.Errorf("content = %q", s.Content())
	}
}

func TestInsertCheckboxIsATask(t *testing.T) {
	s := newSession(t, "- [x] done")
	if err := s.InsertText(InsertCheckbox, InsertOptions{}); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if got := s.Tasks(); len(got) != 2 || got[1].Completed {
		t.Errorf("tasks = %+v", got)
	}
	if !s.CanUndo() {
		t.Error("inserts should be undoable")
	}
}

func TestInsertTemplates(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	s := newSession(t, "")
	if err := s.InsertText(InsertTodoTemplate, InsertOptions{Now: now}); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if !strings.Contains(s.Content(), "# To-Do List - 2026-05-04") {
		t.Errorf("content = %q", s.Content())
	}
	got := s.Tasks()
	if len(got) != 7 || !got[6].Completed {
		t.Errorf("todo template tasks = %+v", got)
	}

	s = newSession(t, "")
	_ = s.InsertText(InsertMeetingTemplate, InsertOptions{Now: now})
	if len(s.Tasks()) != 2 {
		t.Errorf("meeting template tasks = %d, want 2", len(s.Tasks()))
	}

	s = newSession(t, "x")
	_ = s.InsertText(InsertCodeBlock, InsertOptions{Now: now, Language: "go"})
	if s.Content() != "x\n```go\n// Your code here\n```\n" {
		t.Errorf("code block = %q", s.Content())
	}
}

func TestParseInsert(t *testing.T) {
	if _, err := ParseInsert("divider"); err != nil {
		t.Errorf("ParseInsert(divider): %v", err)
	}
	if _, err := ParseInsert("banner"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("ParseInsert(banner) err = %v", err)
	}
}
