//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"

	"github.com/starford/notegenius/internal/models"
)

func TestFTS5TableMirrorsNotes(t *testing.T) {
	db := testDB(t)
	put(t, db, "a", "first body", nil)
	put(t, db, "a", "second body", nil)

	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes_fts WHERE id = 'a'`).Scan(&count); err != nil {
		t.Fatalf("notes_fts: %v", err)
	}
	if count != 1 {
		t.Errorf("fts rows for a = %d, want 1", count)
	}
}

func TestFTS5SearchHighlightsMatch(t *testing.T) {
	db := testDB(t)
	put(t, db, "fts", "NoteGenius provides powerful full-text search capabilities.", func(n *models.Note) {
		n.Title = "FTS Note"
	})

	results, err := db.Search("powerful", 10, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "fts" {
		t.Fatalf("results = %+v", results)
	}
	if !strings.Contains(results[0].Snippet, "**powerful**") {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestFTS5PrefixAndAllTerms(t *testing.T) {
	db := testDB(t)
	put(t, db, "both", "grocery shopping on friday", nil)
	put(t, db, "one", "grocery list only", nil)

	results, err := db.Search("groc fri", 10, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "both" {
		t.Errorf("results = %+v, want only both", results)
	}
}

func TestFTS5TitleOutranksBody(t *testing.T) {
	db := testDB(t)
	put(t, db, "body", "a note about budget planning", func(n *models.Note) { n.Title = "Misc" })
	put(t, db, "title", "numbers and more", func(n *models.Note) { n.Title = "Budget" })

	results, err := db.Search("budget", 10, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 || results[0].ID != "title" {
		t.Errorf("results = %+v, want title first", results)
	}
}

func TestFTS5QuerySyntaxIsLiteral(t *testing.T) {
	db := testDB(t)
	put(t, db, "q", "plain text", nil)

	for _, q := range []string{`"unbalanced`, "NOT", "a OR", "title:x", "*"} {
		if _, err := db.Search(q, 10, false); err != nil {
			t.Errorf("Search(%q): %v", q, err)
		}
	}
}

func TestFTS5DeleteAndReplace(t *testing.T) {
	db := testDB(t)
	put(t, db, "evo", "original text", func(n *models.Note) { n.Title = "Old" })
	put(t, db, "evo", "replacement text", func(n *models.Note) { n.Title = "New" })
	put(t, db, "gone", "vanishing content", nil)
	if err := db.DeleteNote("gone"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}

	if results, _ := db.Search("original", 10, false); len(results) != 0 {
		t.Error("old content still indexed")
	}
	if results, _ := db.Search("replacement", 10, false); len(results) != 1 || results[0].Title != "New" {
		t.Errorf("replacement not indexed: %+v", results)
	}
	if results, _ := db.Search("vanishing", 10, true); len(results) != 0 {
		t.Error("deleted note still indexed")
	}
}
