package tasks

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	counts := []Counts{
		{Total: 3, Completed: 1, Reminder: &past},
		{Total: 2, Completed: 2, Reminder: &past},
		{Total: 4, Completed: 0, Reminder: &future},
		{Total: 0, Completed: 0},
	}
	got := Summarize(counts, now)
	want := Summary{Total: 9, Completed: 3, Pending: 6, Overdue: 2, CompletionRate: 33}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil, time.Now()); got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v", got)
	}
}

func TestCountsOf(t *testing.T) {
	c := CountsOf(groceries, nil)
	if c.Total != 3 || c.Completed != 1 || c.Pending() != 2 {
		t.Errorf("CountsOf = %+v", c)
	}
}

func TestFilterMatch(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	open := Counts{Total: 2, Completed: 1}
	done := Counts{Total: 2, Completed: 2}
	late := Counts{Total: 1, Completed: 0, Reminder: &past}
	none := Counts{}

	cases := []struct {
		filter Filter
		c      Counts
		want   bool
	}{
		{FilterAll, open, true},
		{FilterAll, none, false},
		{FilterPending, open, true},
		{FilterPending, done, false},
		{FilterCompleted, done, true},
		{FilterCompleted, open, false},
		{FilterOverdue, late, true},
		{FilterOverdue, open, false},
	}
	for _, tc := range cases {
		if got := tc.filter.Match(tc.c, now); got != tc.want {
			t.Errorf("%s.Match(%+v) = %v, want %v", tc.filter, tc.c, got, tc.want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	if f, err := ParseFilter(""); err != nil || f != FilterAll {
		t.Errorf("ParseFilter(\"\") = %q, %v", f, err)
	}
	if f, err := ParseFilter("overdue"); err != nil || f != FilterOverdue {
		t.Errorf("ParseFilter(overdue) = %q, %v", f, err)
	}
	if _, err := ParseFilter("someday"); err == nil {
		t.Error("expected error for unknown filter")
	}
}
