package index

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/starford/notegenius/internal/checksum"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/parser"
	"github.com/starford/notegenius/internal/storage"
)

// Change is one index mutation caused by the state of the store.
type Change struct {
	Kind string
	ID   string
}

// Reconcile brings the index in line with the store: rows without a file
// are deleted, and files whose checksum differs from the indexed one are
// parsed and upserted. Files that cannot be read or parsed are logged and
// left out. Changes are reported deletions first, each group ordered by id.
func Reconcile(db *DB, store storage.Provider, logger *slog.Logger) ([]Change, error) {
	indexed, err := db.AllChecksums()
	if err != nil {
		return nil, fmt.Errorf("index: reconcile: %w", err)
	}
	metas, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("index: reconcile: %w", err)
	}
	slices.SortFunc(metas, func(a, b models.NoteMetadata) int { return cmp.Compare(a.ID, b.ID) })

	var changes []Change
	onDisk := make(map[string]bool, len(metas))
	for _, m := range metas {
		onDisk[m.ID] = true
	}
	for _, id := range slices.Sorted(maps.Keys(indexed)) {
		if onDisk[id] {
			continue
		}
		if err := db.DeleteNote(id); err != nil {
			logger.Warn("reconcile: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		changes = append(changes, Change{Kind: KindDeleted, ID: id})
	}

	for _, m := range metas {
		prev, known := indexed[m.ID]
		if prev == m.Checksum {
			continue
		}
		data, err := store.Read(m.ID)
		if err == nil {
			err = IndexFile(db, m.ID, data, m.UpdatedAt)
		}
		if err != nil {
			logger.Warn("reconcile: index failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		kind := KindCreated
		if known {
			kind = KindUpdated
		}
		changes = append(changes, Change{Kind: kind, ID: m.ID})
	}
	return changes, nil
}

// Sync reconciles the index at startup and logs what changed.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	changes, err := Reconcile(db, store, logger)
	if err != nil {
		return err
	}
	counts := map[string]int{}
	for _, c := range changes {
		counts[c.Kind]++
	}
	logger.Info("index synced",
		slog.Int("created", counts[KindCreated]),
		slog.Int("updated", counts[KindUpdated]),
		slog.Int("deleted", counts[KindDeleted]),
	)
	return nil
}

// IndexFile parses the raw bytes of note id and upserts it.
func IndexFile(db NoteIndex, id string, data []byte, modTime time.Time) error {
	n, err := parser.Parse(id, data, modTime)
	if err != nil {
		return err
	}
	return db.UpsertNote(RowFromNote(n, checksum.Sum(data)), n.Content)
}
