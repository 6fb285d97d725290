package index

import (
	"database/sql"
	"strings"
	"unicode"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	snippetRunes       = 160
)

func searchLimit(n int) int {
	switch {
	case n <= 0:
		return defaultSearchLimit
	case n > maxSearchLimit:
		return maxSearchLimit
	}
	return n
}

// searchTerms splits a query into distinct lower-cased words. Every term
// must match for a note to be returned.
func searchTerms(query string) []string {
	var terms []string
	seen := map[string]bool{}
	for _, f := range strings.Fields(strings.ToLower(query)) {
		if !seen[f] {
			seen[f] = true
			terms = append(terms, f)
		}
	}
	return terms
}

// snippet returns a single-line window of body centred on the first term
// found in it, or the start of body when no term occurs there.
func snippet(body string, terms []string) string {
	text := []rune(strings.Join(strings.Fields(body), " "))
	if len(text) <= snippetRunes {
		return string(text)
	}
	at := -1
	for _, t := range terms {
		if i := indexFold(text, []rune(t)); i >= 0 && (at < 0 || i < at) {
			at = i
		}
	}
	start := 0
	if at > snippetRunes/4 {
		start = at - snippetRunes/4
	}
	end := min(start+snippetRunes, len(text))
	if end-start < snippetRunes {
		start = max(0, end-snippetRunes)
	}
	out := string(text[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}

func indexFold(hay, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, r := range needle {
			if unicode.ToLower(hay[i+j]) != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

func scanResults(rows *sql.Rows, snip func(r *SearchResult, body string)) ([]SearchResult, error) {
	defer rows.Close()
	out := []SearchResult{}
	for rows.Next() {
		var (
			r    SearchResult
			body string
		)
		if err := rows.Scan(&r.ID, &r.Title, &body); err != nil {
			return nil, err
		}
		snip(&r, body)
		out = append(out, r)
	}
	return out, rows.Err()
}
