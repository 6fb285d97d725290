//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// Without FTS5 the notes table is scanned directly, so there is nothing
// extra to create or maintain.
func initFTS(*sql.DB) error                                     { return nil }
func ftsUpsert(*sql.Tx, string, string, string, []string) error { return nil }
func ftsDelete(*sql.Tx, string)                                 {}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Search returns notes containing every word of query in their title, body
// or tags. Title hits rank first, then the most recently updated.
func (db *DB) Search(query string, limit int, includePrivate bool) ([]SearchResult, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []SearchResult{}, nil
	}

	var (
		where []string
		args  []any
	)
	for _, t := range terms {
		p := likePattern(t)
		where = append(where, `(title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		args = append(args, p, p, p)
	}
	where = append(where, placeholderClause)
	if !includePrivate {
		where = append(where, "is_private = 0")
	}
	args = append(args, likePattern(terms[0]), searchLimit(limit))

	rows, err := db.conn.Query(`
		SELECT id, title, body
		FROM notes
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY CASE WHEN title LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, updated_at DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	out, err := scanResults(rows, func(r *SearchResult, body string) {
		r.Snippet = snippet(body, terms)
	})
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return out, nil
}
