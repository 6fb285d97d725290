// Package index provides the SQLite-backed note catalogue: list filters,
// folder and task aggregates, reminders, and full-text search (FTS5 when
// built with the sqlite_fts5 tag, LIKE otherwise).
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Timestamps are stored as unix milliseconds so range queries stay numeric.
const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL DEFAULT '',
	folder         TEXT NOT NULL DEFAULT '',
	type           TEXT NOT NULL DEFAULT 'note',
	tags           TEXT NOT NULL DEFAULT '[]',
	body           TEXT NOT NULL DEFAULT '',
	checksum       TEXT NOT NULL DEFAULT '',
	is_private     INTEGER NOT NULL DEFAULT 0,
	is_locked      INTEGER NOT NULL DEFAULT 0,
	ai_generated   INTEGER NOT NULL DEFAULT 0,
	reminder       INTEGER,
	task_total     INTEGER NOT NULL DEFAULT 0,
	task_completed INTEGER NOT NULL DEFAULT 0,
	word_count     INTEGER NOT NULL DEFAULT 0,
	created_at     INTEGER NOT NULL DEFAULT 0,
	updated_at     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder);
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at);
CREATE INDEX IF NOT EXISTS idx_notes_reminder ON notes(reminder);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Ping checks the connection; used by the readiness probe.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
