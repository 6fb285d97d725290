// Package testutil provides shared test helpers for setting up note stores,
// databases and event sinks.
package testutil

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "notegenius-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a temporary note directory with a storage provider.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return dir, store
}

// QuietLogger logs errors only.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// NoteEvent is one recorded change notification.
type NoteEvent struct {
	Kind         string
	ID           string
	TasksChanged bool
}

// Recorder collects note events; it satisfies the service's publisher.
type Recorder struct {
	mu     sync.Mutex
	events []NoteEvent
}

// PublishNoteEvent records the event.
func (r *Recorder) PublishNoteEvent(kind, id string, tasksChanged bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, NoteEvent{Kind: kind, ID: id, TasksChanged: tasksChanged})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []NoteEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]NoteEvent(nil), r.events...)
}

// Last returns the most recent event, if any.
func (r *Recorder) Last() (NoteEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return NoteEvent{}, false
	}
	return r.events[len(r.events)-1], true
}
