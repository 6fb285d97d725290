package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/tasks"
	"github.com/starford/notegenius/internal/textstats"
)

// NoteRow represents a row in the notes table. Task and word counts are
// derived from the body when the row is built.
type NoteRow struct {
	ID            string
	Title         string
	Folder        string
	Type          models.NoteType
	Tags          []string
	Checksum      string
	IsPrivate     bool
	IsLocked      bool
	AIGenerated   bool
	Reminder      *time.Time
	TaskTotal     int
	TaskCompleted int
	WordCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// RowFromNote builds the index row for n. checksum is the digest of the
// note's file bytes.
func RowFromNote(n *models.Note, checksum string) NoteRow {
	total, completed := tasks.Count(n.Content)
	return NoteRow{
		ID:            n.ID,
		Title:         n.Title,
		Folder:        n.Folder,
		Type:          n.Type,
		Tags:          n.Tags,
		Checksum:      checksum,
		IsPrivate:     n.IsPrivate,
		IsLocked:      n.IsLocked,
		AIGenerated:   n.AIGenerated,
		Reminder:      n.Reminder,
		TaskTotal:     total,
		TaskCompleted: completed,
		WordCount:     textstats.Analyze(n.Content).Words,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// Counts returns the task tally of the row.
func (r NoteRow) Counts() tasks.Counts {
	return tasks.Counts{Total: r.TaskTotal, Completed: r.TaskCompleted, Reminder: r.Reminder}
}

// UpsertNote inserts or replaces a note and its FTS entry within a transaction.
func (db *DB) UpsertNote(n NoteRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	var reminder sql.NullInt64
	if n.Reminder != nil {
		reminder = sql.NullInt64{Int64: n.Reminder.UnixMilli(), Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO notes (id, title, folder, type, tags, body, checksum,
			is_private, is_locked, ai_generated, reminder,
			task_total, task_completed, word_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title          = excluded.title,
			folder         = excluded.folder,
			type           = excluded.type,
			tags           = excluded.tags,
			body           = excluded.body,
			checksum       = excluded.checksum,
			is_private     = excluded.is_private,
			is_locked      = excluded.is_locked,
			ai_generated   = excluded.ai_generated,
			reminder       = excluded.reminder,
			task_total     = excluded.task_total,
			task_completed = excluded.task_completed,
			word_count     = excluded.word_count,
			created_at     = excluded.created_at,
			updated_at     = excluded.updated_at
	`, n.ID, n.Title, n.Folder, string(n.Type), string(tagsJSON), body, n.Checksum,
		n.IsPrivate, n.IsLocked, n.AIGenerated, reminder,
		n.TaskTotal, n.TaskCompleted, n.WordCount,
		n.CreatedAt.UnixMilli(), n.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, n.ID, n.Title, body, n.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteNote removes a note and its FTS entry.
func (db *DB) DeleteNote(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	if _, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE id = ?`, id).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns id → checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// GetNote returns the row for id.
func (db *DB) GetNote(id string) (*NoteRow, error) {
	row := db.conn.QueryRow(`SELECT `+rowColumns+` FROM notes WHERE id = ?`, id)
	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: note %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	return r, nil
}

const rowColumns = `id, title, folder, type, tags, checksum, is_private, is_locked,
	ai_generated, reminder, task_total, task_completed, word_count, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (*NoteRow, error) {
	var (
		r                  NoteRow
		typ, tagsJSON      string
		reminder           sql.NullInt64
		createdMs, updated int64
	)
	if err := s.Scan(&r.ID, &r.Title, &r.Folder, &typ, &tagsJSON, &r.Checksum,
		&r.IsPrivate, &r.IsLocked, &r.AIGenerated, &reminder,
		&r.TaskTotal, &r.TaskCompleted, &r.WordCount, &createdMs, &updated); err != nil {
		return nil, err
	}
	r.Type = models.NoteType(typ)
	if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil || r.Tags == nil {
		r.Tags = []string{}
	}
	if reminder.Valid {
		t := time.UnixMilli(reminder.Int64).UTC()
		r.Reminder = &t
	}
	r.CreatedAt = time.UnixMilli(createdMs).UTC()
	r.UpdatedAt = time.UnixMilli(updated).UTC()
	return &r, nil
}
