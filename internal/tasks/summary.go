package tasks

import (
	"fmt"
	"math"
	"time"
)

// Counts is the task tally of one note together with its reminder.
type Counts struct {
	Total     int
	Completed int
	Reminder  *time.Time
}

// CountsOf tallies the tasks of text.
func CountsOf(text string, reminder *time.Time) Counts {
	total, completed := Count(text)
	return Counts{Total: total, Completed: completed, Reminder: reminder}
}

// Pending returns the number of incomplete tasks.
func (c Counts) Pending() int {
	return c.Total - c.Completed
}

// Overdue reports whether the note's reminder has passed while tasks are
// still open.
func (c Counts) Overdue(now time.Time) bool {
	return c.Reminder != nil && c.Reminder.Before(now) && c.Pending() > 0
}

// Summary aggregates task counts across notes.
type Summary struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completion_rate"`
}

// Summarize aggregates counts. Overdue counts the incomplete tasks of notes
// whose reminder is before now. CompletionRate is a rounded percentage.
func Summarize(counts []Counts, now time.Time) Summary {
	var s Summary
	for _, c := range counts {
		s.Total += c.Total
		s.Completed += c.Completed
		if c.Overdue(now) {
			s.Overdue += c.Pending()
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// Filter selects notes by the state of their tasks.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

// ParseFilter maps a query value to a Filter. Empty means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterCompleted, FilterOverdue:
		return f, nil
	}
	return "", fmt.Errorf("tasks: unknown filter %q", s)
}

// Match reports whether a note with counts c passes f. Notes without tasks
// never match.
func (f Filter) Match(c Counts, now time.Time) bool {
	if c.Total == 0 {
		return false
	}
	switch f {
	case FilterPending:
		return c.Pending() > 0
	case FilterCompleted:
		return c.Pending() == 0
	case FilterOverdue:
		return c.Overdue(now)
	}
	return true
}
