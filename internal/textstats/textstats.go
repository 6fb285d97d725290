// Package textstats computes derived statistics over a note buffer.
package textstats

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// WordsPerMinute is the reading speed used for ReadingTimeMinutes.
const WordsPerMinute = 200

var (
	sentenceBreakRe  = regexp.MustCompile(`[.!?]+`)
	paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)
)

// Stats describes a buffer.
//
// ReadabilityScore is a heuristic proxy derived from average sentence
// length (100 - 2*words/sentence, clamped to [0, 100]). It is not a
// validated readability formula and should be shown as a rough hint only.
type Stats struct {
	Words                    int     `json:"words"`
	Characters               int     `json:"characters"`
	Sentences                int     `json:"sentences"`
	Paragraphs               int     `json:"paragraphs"`
	ReadingTimeMinutes       int     `json:"reading_time_minutes"`
	ReadabilityScore         int     `json:"readability_score"`
	AvgWordsPerSentence      float64 `json:"avg_words_per_sentence"`
	AvgSentencesPerParagraph float64 `json:"avg_sentences_per_paragraph"`
}

// Analyze computes Stats for text. It never fails; empty input yields zero
// counts and a readability score of 100.
func Analyze(text string) Stats {
	words := len(strings.Fields(text))
	sentences := countNonBlank(sentenceBreakRe.Split(text, -1))
	paragraphs := countNonBlank(paragraphBreakRe.Split(text, -1))

	var avgWords, avgSentences float64
	if sentences > 0 {
		avgWords = float64(words) / float64(sentences)
	}
	if paragraphs > 0 {
		avgSentences = float64(sentences) / float64(paragraphs)
	}

	return Stats{
		Words:                    words,
		Characters:               utf8.RuneCountInString(text),
		Sentences:                sentences,
		Paragraphs:               paragraphs,
		ReadingTimeMinutes:       int(math.Ceil(float64(words) / WordsPerMinute)),
		ReadabilityScore:         int(math.Round(clamp(100-2*avgWords, 0, 100))),
		AvgWordsPerSentence:      roundTenth(avgWords),
		AvgSentencesPerParagraph: roundTenth(avgSentences),
	}
}

func countNonBlank(parts []string) int {
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
