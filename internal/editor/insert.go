package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/tasks"
)

// Insert is a block of generated content appended to the buffer.
type Insert string

const (
	InsertCheckbox        Insert = "checkbox"
	InsertDivider         Insert = "divider"
	InsertTable           Insert = "table"
	InsertDateTime        Insert = "datetime"
	InsertCodeBlock       Insert = "code_block"
	InsertSignature       Insert = "signature"
	InsertMeetingTemplate Insert = "template_meeting"
	InsertTodoTemplate    Insert = "template_todo"
)

// InsertOptions parameterise generated content.
type InsertOptions struct {
	Now      time.Time
	Language string // code block language, optional
}

const tableMarkdown = `
| Header 1 | Header 2 | Header 3 |
|----------|----------|----------|
| Cell 1   | Cell 2   | Cell 3   |
| Cell 4   | Cell 5   | Cell 6   |
`

// InsertText appends the content for kind to the buffer. Like formatting,
// inserts are recorded so they can be undone.
func (s *Session) InsertText(kind Insert, opts InsertOptions) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	block, err := render(kind, opts)
	if err != nil {
		return err
	}
	s.record(s.note.Content + block)
	return nil
}

// ParseInsert validates an insert name.
func ParseInsert(name string) (Insert, error) {
	kind := Insert(name)
	if _, err := render(kind, InsertOptions{Now: time.Now()}); err != nil {
		return "", err
	}
	return kind, nil
}

func render(kind Insert, opts InsertOptions) (string, error) {
	day := opts.Now.Format("2006-01-02")
	switch kind {
	case InsertCheckbox:
		return "\n" + tasks.Line("", false), nil
	case InsertDivider:
		return "\n\n---\n\n", nil
	case InsertTable:
		return tableMarkdown, nil
	case InsertDateTime:
		return "\n\n**" + opts.Now.Format("2006-01-02 15:04") + "**\n", nil
	case InsertCodeBlock:
		return "\n```" + opts.Language + "\n// Your code here\n```\n", nil
	case InsertSignature:
		return "\n\nBest regards,\n[Your Name]", nil
	case InsertMeetingTemplate:
		return meetingTemplate(day), nil
	case InsertTodoTemplate:
		return todoTemplate(day), nil
	}
	return "", fmt.Errorf("editor: unknown insert %q: %w", kind, apperr.ErrInvalidInput)
}

func meetingTemplate(day string) string {
	open := tasks.Line("", false)
	return strings.Join([]string{
		"",
		"# Meeting Notes - " + day,
		"",
		"## Attendees",
		"- ",
		"",
		"## Agenda",
		"1. ",
		"2. ",
		"3. ",
		"",
		"## Discussion Points",
		"- ",
		"",
		"## Action Items",
		open,
		open,
		"",
		"## Next Steps",
		"- ",
		"",
	}, "\n")
}

func todoTemplate(day string) string {
	open := tasks.Line("", false)
	var b strings.Builder
	b.WriteString("\n# To-Do List - " + day + "\n")
	for _, section := range []string{"High Priority", "Medium Priority", "Low Priority"} {
		b.WriteString("\n## " + section + "\n")
		b.WriteString(open + "\n" + open + "\n")
	}
	b.WriteString("\n## Completed\n" + tasks.Line("", true) + "\n")
	return b.String()
}
