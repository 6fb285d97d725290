// Package tasks derives checklist items from a note buffer and writes
// completion changes back into it.
//
// A task line is exactly "- [ ] <text>" or "- [x] <text>" at the start of a
// line. Anything else, including "[X]", "-[ ]" or indented items, is plain
// text. The index of a task is its ordinal among task lines in document
// order; Parse and Toggle agree on it.
package tasks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/models"
)

const (
	markerOpen = "[ ]"
	markerDone = "[x]"

	// markerPos is the byte offset of the checkbox state inside a task line.
	markerPos = len("- [")
)

var taskLineRe = regexp.MustCompile(`^- \[( |x)\] (.*)$`)

// Line formats a task line in the checklist wire format.
func Line(text string, completed bool) string {
	marker := markerOpen
	if completed {
		marker = markerDone
	}
	return "- " + marker + " " + text
}

// Parse returns the tasks of text in document order.
func Parse(text string) []models.Task {
	out := []models.Task{}
	for _, line := range strings.Split(text, "\n") {
		m := taskLineRe.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
		if m == nil {
			continue
		}
		out = append(out, models.Task{
			Text:      strings.TrimSpace(m[2]),
			Completed: m[1] == "x",
		})
	}
	return out
}

// Count returns the number of tasks and how many of them are completed.
func Count(text string) (total, completed int) {
	for _, t := range Parse(text) {
		total++
		if t.Completed {
			completed++
		}
	}
	return total, completed
}

// Toggle flips the completion marker of the task at index and returns the
// new buffer. Every other byte of text is preserved. An index that does not
// name a task yields the unchanged buffer and apperr.ErrIndexOutOfRange.
func Toggle(text string, index int) (string, error) {
	lines := strings.Split(text, "\n")
	seen := 0
	for i, line := range lines {
		if !isTaskLine(line) {
			continue
		}
		if seen == index {
			lines[i] = flip(line)
			return strings.Join(lines, "\n"), nil
		}
		seen++
	}
	return text, fmt.Errorf("tasks: toggle %d of %d: %w", index, seen, apperr.ErrIndexOutOfRange)
}

func isTaskLine(line string) bool {
	return taskLineRe.MatchString(strings.TrimSuffix(line, "\r"))
}

func flip(line string) string {
	state := byte('x')
	if line[markerPos] == 'x' {
		state = ' '
	}
	return line[:markerPos] + string(state) + line[markerPos+1:]
}
