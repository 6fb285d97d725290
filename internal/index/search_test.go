package index

import (
	"slices"
	"strings"
	"testing"
)

func TestSearchTerms(t *testing.T) {
	got := searchTerms("  Milk eggs MILK\tbread ")
	if want := []string{"milk", "eggs", "bread"}; !slices.Equal(got, want) {
		t.Errorf("searchTerms = %v, want %v", got, want)
	}
	if searchTerms("   ") != nil {
		t.Error("blank query should have no terms")
	}
}

func TestSearchLimit(t *testing.T) {
	for in, want := range map[int]int{0: 20, -3: 20, 5: 5, 1000: 100} {
		if got := searchLimit(in); got != want {
			t.Errorf("searchLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short\n\nbody", nil); got != "short body" {
		t.Errorf("short snippet = %q", got)
	}

	long := strings.Repeat("filler ", 60) + "Needle here " + strings.Repeat("tail ", 60)
	got := snippet(long, []string{"needle"})
	if !strings.Contains(got, "Needle") {
		t.Errorf("snippet misses match: %q", got)
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("snippet should be elided both sides: %q", got)
	}
	if n := len([]rune(got)); n > snippetRunes+6 {
		t.Errorf("snippet length = %d", n)
	}

	head := snippet(long, []string{"absent"})
	if !strings.HasPrefix(head, "filler") || !strings.HasSuffix(head, "...") {
		t.Errorf("no-match snippet = %q", head)
	}
}

func TestIndexFold(t *testing.T) {
	if i := indexFold([]rune("Größe Über"), []rune("über")); i != 6 {
		t.Errorf("indexFold = %d, want 6", i)
	}
	if i := indexFold([]rune("abc"), []rune("")); i != -1 {
		t.Errorf("empty needle = %d", i)
	}
}
