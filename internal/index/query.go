package index

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/notegenius/internal/models"
	"github.com/starford/notegenius/internal/tasks"
)

// Sort orders for ListNotes.
const (
	SortUpdated = "updated"
	SortCreated = "created"
	SortTitle   = "title"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

var sortClauses = map[string]string{
	SortUpdated: "updated_at DESC, id",
	SortCreated: "created_at DESC, id",
	SortTitle:   "title COLLATE NOCASE, id",
}

// ListQuery filters ListNotes. Zero values disable a filter.
type ListQuery struct {
	Folder string
	Tag    string
	Type   models.NoteType
	// Tasks filters by checklist state; empty disables task filtering.
	Tasks               tasks.Filter
	IncludePrivate      bool
	IncludePlaceholders bool
	Sort                string
	Limit               int
	Offset              int
	// Now is the reference time for the overdue filter.
	Now time.Time
}

const placeholderClause = `NOT EXISTS (SELECT 1 FROM json_each(notes.tags) WHERE value = '` + models.FolderPlaceholderTag + `')`

func (q ListQuery) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if q.Folder != "" {
		clauses = append(clauses, "folder = ?")
		args = append(args, q.Folder)
	}
	if q.Tag != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(notes.tags) WHERE value = ?)")
		args = append(args, q.Tag)
	}
	if q.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(q.Type))
	}
	if !q.IncludePrivate {
		clauses = append(clauses, "is_private = 0")
	}
	if !q.IncludePlaceholders {
		clauses = append(clauses, placeholderClause)
	}
	switch q.Tasks {
	case tasks.FilterAll:
		clauses = append(clauses, "task_total > 0")
	case tasks.FilterPending:
		clauses = append(clauses, "task_completed < task_total")
	case tasks.FilterCompleted:
		clauses = append(clauses, "task_total > 0 AND task_completed = task_total")
	case tasks.FilterOverdue:
		now := q.Now
		if now.IsZero() {
			now = time.Now()
		}
		clauses = append(clauses, "reminder IS NOT NULL AND reminder < ? AND task_completed < task_total")
		args = append(args, now.UnixMilli())
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListNotes returns one page of rows matching q and the total match count.
func (db *DB) ListNotes(q ListQuery) ([]NoteRow, int, error) {
	where, args := q.where()

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}

	order, ok := sortClauses[q.Sort]
	if !ok {
		order = sortClauses[SortUpdated]
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := max(q.Offset, 0)

	rows, err := db.conn.Query(`SELECT `+rowColumns+` FROM notes`+where+
		` ORDER BY `+order+` LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	out := []NoteRow{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

// FolderStat summarises one folder. Placeholder notes keep a folder listed
// but are not counted.
type FolderStat struct {
	Name    string `json:"name"`
	Total   int    `json:"total"`
	Private int    `json:"private"`
	Locked  int    `json:"locked"`
	Recent  int    `json:"recent"`
}

// Folders returns per-folder stats ordered by name. Recent counts notes
// updated at or after recentSince.
func (db *DB) Folders(includePrivate bool, recentSince time.Time) ([]FolderStat, error) {
	counted := placeholderClause
	query := `
		SELECT folder,
		       COALESCE(SUM(CASE WHEN ` + counted + ` THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN ` + counted + ` AND is_private = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN ` + counted + ` AND is_locked = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN ` + counted + ` AND updated_at >= ? THEN 1 ELSE 0 END), 0)
		FROM notes`
	if !includePrivate {
		query += ` WHERE is_private = 0`
	}
	query += ` GROUP BY folder ORDER BY folder COLLATE NOCASE`

	rows, err := db.conn.Query(query, recentSince.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("index: folders: %w", err)
	}
	defer rows.Close()

	out := []FolderStat{}
	for rows.Next() {
		var f FolderStat
		if err := rows.Scan(&f.Name, &f.Total, &f.Private, &f.Locked, &f.Recent); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Reminders returns notes whose reminder falls in [from, to), earliest first.
func (db *DB) Reminders(from, to time.Time, includePrivate bool) ([]NoteRow, error) {
	query := `SELECT ` + rowColumns + ` FROM notes WHERE reminder >= ? AND reminder < ?`
	if !includePrivate {
		query += ` AND is_private = 0`
	}
	query += ` ORDER BY reminder, id`

	rows, err := db.conn.Query(query, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("index: reminders: %w", err)
	}
	defer rows.Close()

	out := []NoteRow{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// TaskCounts returns the task tally of every note that has tasks.
func (db *DB) TaskCounts(includePrivate bool) ([]tasks.Counts, error) {
	query := `SELECT task_total, task_completed, reminder FROM notes WHERE task_total > 0 AND ` + placeholderClause
	if !includePrivate {
		query += ` AND is_private = 0`
	}
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("index: task counts: %w", err)
	}
	defer rows.Close()

	var out []tasks.Counts
	for rows.Next() {
		var (
			c        tasks.Counts
			reminder *int64
		)
		if err := rows.Scan(&c.Total, &c.Completed, &reminder); err != nil {
			return nil, err
		}
		if reminder != nil {
			t := time.UnixMilli(*reminder).UTC()
			c.Reminder = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
