package index

import (
	"time"

	"github.com/starford/notegenius/internal/tasks"
)

// NoteIndex defines the interface for note indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type NoteIndex interface {
	UpsertNote(n NoteRow, body string) error
	DeleteNote(id string) error
	GetChecksum(id string) (string, error)
	GetNote(id string) (*NoteRow, error)
	ListNotes(q ListQuery) ([]NoteRow, int, error)
	Folders(includePrivate bool, recentSince time.Time) ([]FolderStat, error)
	Reminders(from, to time.Time, includePrivate bool) ([]NoteRow, error)
	TaskCounts(includePrivate bool) ([]tasks.Counts, error)
	Search(query string, limit int, includePrivate bool) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Ping() error
	Close() error
}

// Verify *DB satisfies NoteIndex at compile time.
var _ NoteIndex = (*DB)(nil)
