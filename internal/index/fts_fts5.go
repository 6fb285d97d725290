//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"
)

// notes_fts mirrors the searchable columns of notes. Rows are replaced in
// the same transaction as the notes row.
const ftsSchemaSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
	id UNINDEXED,
	title,
	body,
	tags,
	tokenize = 'unicode61 remove_diacritics 2'
);`

// Column weights for bm25: id, title, body, tags.
const ftsRank = `bm25(notes_fts, 0.0, 10.0, 1.0, 5.0)`

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(ftsSchemaSQL)
	return err
}

func ftsUpsert(tx *sql.Tx, id, title, body string, tags []string) error {
	ftsDelete(tx, id)
	if _, err := tx.Exec(`INSERT INTO notes_fts (id, title, body, tags) VALUES (?, ?, ?, ?)`,
		id, title, body, strings.Join(tags, " ")); err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE id = ?`, id)
}

// matchExpr turns free text into an FTS5 query where every term is a quoted
// prefix token, so user input never reaches the FTS5 query syntax. Terms
// without a letter or digit produce no tokens and are skipped.
func matchExpr(terms []string) string {
	var quoted []string
	for _, t := range terms {
		if !strings.ContainsFunc(t, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"*`)
	}
	return strings.Join(quoted, " ")
}

// Search returns notes matching every word of query, best match first.
// Snippets come from FTS5 with matches wrapped in Markdown bold.
func (db *DB) Search(query string, limit int, includePrivate bool) ([]SearchResult, error) {
	expr := matchExpr(searchTerms(query))
	if expr == "" {
		return []SearchResult{}, nil
	}
	filter := " AND " + strings.ReplaceAll(placeholderClause, "notes.tags", "n.tags")
	if !includePrivate {
		filter += " AND n.is_private = 0"
	}
	rows, err := db.conn.Query(`
		SELECT f.id, n.title, snippet(notes_fts, 2, '**', '**', '...', 24)
		FROM notes_fts f
		JOIN notes n ON n.id = f.id
		WHERE notes_fts MATCH ?`+filter+`
		ORDER BY `+ftsRank+`, n.updated_at DESC
		LIMIT ?`, expr, searchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	out, err := scanResults(rows, func(r *SearchResult, s string) {
		r.Snippet = s
		if r.Snippet == "" {
			r.Snippet = r.Title
		}
	})
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return out, nil
}
