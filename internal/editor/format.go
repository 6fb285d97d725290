package editor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/starford/notegenius/internal/apperr"
)

// Format is a Markdown formatting action applied to a selection.
type Format string

const (
	FormatBold          Format = "bold"
	FormatItalic        Format = "italic"
	FormatUnderline     Format = "underline"
	FormatStrikethrough Format = "strikethrough"
	FormatH1            Format = "h1"
	FormatH2            Format = "h2"
	FormatH3            Format = "h3"
	FormatBulletList    Format = "ul"
	FormatOrderedList   Format = "ol"
	FormatQuote         Format = "quote"
	FormatCode          Format = "code"
	FormatIndent        Format = "indent"
	FormatOutdent       Format = "outdent"
)

var leadingIndentRe = regexp.MustCompile(`^ {4}`)

var formatters = map[Format]func(string) string{
	FormatBold:          wrap("**", "**"),
	FormatItalic:        wrap("*", "*"),
	FormatUnderline:     wrap("<u>", "</u>"),
	FormatStrikethrough: wrap("~~", "~~"),
	FormatH1:            wrap("# ", ""),
	FormatH2:            wrap("## ", ""),
	FormatH3:            wrap("### ", ""),
	FormatBulletList:    wrap("- ", ""),
	FormatOrderedList:   wrap("1. ", ""),
	FormatQuote:         wrap("> ", ""),
	FormatCode:          wrap("`", "`"),
	FormatIndent:        wrap("    ", ""),
	FormatOutdent:       func(s string) string { return leadingIndentRe.ReplaceAllString(s, "") },
}

func wrap(prefix, suffix string) func(string) string {
	return func(s string) string { return prefix + s + suffix }
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if _, ok := formatters[f]; !ok {
		return "", fmt.Errorf("editor: unknown format %q: %w", name, apperr.ErrInvalidInput)
	}
	return f, nil
}

// Selection is a half-open byte range [Start, End) of the buffer. An empty
// selection is a cursor position. Both ends must fall on rune boundaries.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (sel Selection) validate(text string) error {
	if sel.Start < 0 || sel.End < sel.Start || sel.End > len(text) {
		return fmt.Errorf("editor: selection [%d,%d) outside buffer of %d bytes: %w",
			sel.Start, sel.End, len(text), apperr.ErrInvalidInput)
	}
	for _, at := range []int{sel.Start, sel.End} {
		if at < len(text) && !utf8.RuneStart(text[at]) {
			return fmt.Errorf("editor: selection offset %d splits a character: %w", at, apperr.ErrInvalidInput)
		}
	}
	return nil
}

// ApplyFormat formats the selected text. The buffer is snapshotted first so
// the change can be undone.
func (s *Session) ApplyFormat(f Format, sel Selection) error {
	apply, ok := formatters[f]
	if !ok {
		return fmt.Errorf("editor: unknown format %q: %w", f, apperr.ErrInvalidInput)
	}
	text := s.note.Content
	if err := sel.validate(text); err != nil {
		return err
	}
	s.record(text[:sel.Start] + apply(text[sel.Start:sel.End]) + text[sel.End:])
	return nil
}

// Replace substitutes every occurrence of find with replacement and returns
// the number of replacements. Both strings must be non-empty. Nothing is
// recorded when find does not occur.
func (s *Session) Replace(find, replacement string) (int, error) {
	if find == "" || replacement == "" {
		return 0, fmt.Errorf("editor: find and replacement are required: %w", apperr.ErrInvalidInput)
	}
	n := strings.Count(s.note.Content, find)
	if n == 0 {
		return 0, nil
	}
	s.record(strings.ReplaceAll(s.note.Content, find, replacement))
	return n, nil
}
