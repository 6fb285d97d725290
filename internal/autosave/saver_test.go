package autosave

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

type countingFlusher struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (f *countingFlusher) Flush(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[id]++
	return f.err
}

func (f *countingFlusher) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[id]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func TestScheduleDebounces(t *testing.T) {
	f := &countingFlusher{}
	s := New(f, 100*time.Millisecond, quietLogger())

	for range 5 {
		s.Schedule("a")
		time.Sleep(20 * time.Millisecond)
	}
	if got := f.count("a"); got != 0 {
		t.Fatalf("flushed %d times during typing, want 0", got)
	}
	if s.Pending() != 1 {
		t.Errorf("pending = %d, want 1", s.Pending())
	}

	time.Sleep(250 * time.Millisecond)
	if got := f.count("a"); got != 1 {
		t.Errorf("flushed %d times, want 1", got)
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d, want 0", s.Pending())
	}
}

func TestNotesAreIndependent(t *testing.T) {
	f := &countingFlusher{}
	s := New(f, 50*time.Millisecond, quietLogger())
	s.Schedule("a")
	s.Schedule("b")
	time.Sleep(200 * time.Millisecond)
	if f.count("a") != 1 || f.count("b") != 1 {
		t.Errorf("counts = %v", f.counts)
	}
}

func TestRunFlushesPendingOnShutdown(t *testing.T) {
	f := &countingFlusher{}
	s := New(f, time.Hour, quietLogger())
	s.Schedule("a")
	s.Schedule("b")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	if f.count("a") != 1 || f.count("b") != 1 {
		t.Errorf("counts = %v", f.counts)
	}

	// After shutdown, scheduling writes through.
	s.Schedule("c")
	if f.count("c") != 1 {
		t.Errorf("late schedule not flushed")
	}
}

func TestRunReportsFlushErrors(t *testing.T) {
	boom := errors.New("disk full")
	f := &countingFlusher{err: boom}
	s := New(f, time.Hour, quietLogger())
	s.Schedule("a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestDefaultDelay(t *testing.T) {
	s := New(&countingFlusher{}, 0, quietLogger())
	if s.delay != DefaultDelay {
		t.Errorf("delay = %v", s.delay)
	}
}
