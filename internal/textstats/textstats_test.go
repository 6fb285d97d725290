package textstats

import (
	"strings"
	"testing"
)

func TestAnalyze_Empty(t *testing.T) {
	got := Analyze("")
	want := Stats{ReadabilityScore: 100}
	if got != want {
		t.Errorf("Analyze(\"\") = %+v, want %+v", got, want)
	}
}

func TestAnalyze_Scenario(t *testing.T) {
	got := Analyze("Hello world. This is a test.")
	if got.Words != 6 {
		t.Errorf("words = %d, want 6", got.Words)
	}
	if got.Sentences != 2 {
		t.Errorf("sentences = %d, want 2", got.Sentences)
	}
	if got.Paragraphs != 1 {
		t.Errorf("paragraphs = %d, want 1", got.Paragraphs)
	}
	if got.ReadingTimeMinutes != 1 {
		t.Errorf("reading time = %d, want 1", got.ReadingTimeMinutes)
	}
	if got.Characters != 28 {
		t.Errorf("characters = %d, want 28", got.Characters)
	}
	if got.ReadabilityScore != 94 {
		t.Errorf("readability = %d, want 94", got.ReadabilityScore)
	}
	if got.AvgWordsPerSentence != 3 {
		t.Errorf("avg words/sentence = %v, want 3", got.AvgWordsPerSentence)
	}
}

func TestAnalyze_CharactersCountRunes(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"héllo", 5},
		{"日本語のメモ", 6},
		{"- [x] café ☕", 12},
	}
	for _, tc := range cases {
		if got := Analyze(tc.text).Characters; got != tc.want {
			t.Errorf("Analyze(%q).Characters = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestAnalyze_WhitespaceOnly(t *testing.T) {
	got := Analyze("  \n\n\t ")
	if got.Words != 0 || got.Sentences != 0 || got.Paragraphs != 0 {
		t.Errorf("Analyze(whitespace) = %+v", got)
	}
	if got.Characters != 7 {
		t.Errorf("characters = %d, want 7", got.Characters)
	}
	if got.ReadabilityScore != 100 {
		t.Errorf("readability = %d, want 100", got.ReadabilityScore)
	}
}

func TestAnalyze_PunctuationRunsAndParagraphs(t *testing.T) {
	text := "Wait... really?! Yes.\n\n   \n\nSecond paragraph here\nstill second.\n\n\n"
	got := Analyze(text)
	if got.Sentences != 4 {
		t.Errorf("sentences = %d, want 4", got.Sentences)
	}
	if got.Paragraphs != 2 {
		t.Errorf("paragraphs = %d, want 2", got.Paragraphs)
	}
	if got.AvgSentencesPerParagraph != 2 {
		t.Errorf("avg sentences/paragraph = %v, want 2", got.AvgSentencesPerParagraph)
	}
}

func TestAnalyze_ReadabilityClampedAtZero(t *testing.T) {
	text := strings.Repeat("word ", 60) + "."
	got := Analyze(text)
	if got.ReadabilityScore != 0 {
		t.Errorf("readability = %d, want 0", got.ReadabilityScore)
	}
}

func TestAnalyze_ReadingTimeRoundsUp(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{1, 1}, {200, 1}, {201, 2}, {400, 2}, {401, 3},
	}
	for _, tc := range cases {
		got := Analyze(strings.Repeat("w ", tc.words))
		if got.ReadingTimeMinutes != tc.want {
			t.Errorf("%d words: reading time = %d, want %d", tc.words, got.ReadingTimeMinutes, tc.want)
		}
	}
}
