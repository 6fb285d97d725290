// Package autosave debounces note writes: a note is persisted once it has
// been quiet for the configured delay.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultDelay is the quiet period before a changed note is written.
const DefaultDelay = 2 * time.Second

// shutdownParallelism bounds concurrent flushes on shutdown.
const shutdownParallelism = 4

// Flusher persists one note. *noteservice.Service satisfies it.
type Flusher interface {
	Flush(ctx context.Context, id string) error
}

// Saver schedules debounced flushes per note.
type Saver struct {
	flusher Flusher
	delay   time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// New creates a Saver. A non-positive delay means DefaultDelay.
func New(f Flusher, delay time.Duration, logger *slog.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Saver{
		flusher: f,
		delay:   delay,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
	}
}

// Schedule (re)starts the quiet period of id. After Run returns, Schedule
// flushes synchronously.
func (s *Saver) Schedule(id string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.flush(context.Background(), id)
		return
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(s.delay, func() { s.fire(id) })
	s.mu.Unlock()
}

// Pending returns the number of notes waiting to be written.
func (s *Saver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Run blocks until ctx is done, then writes every pending note.
func (s *Saver) Run(ctx context.Context) error {
	<-ctx.Done()

	s.mu.Lock()
	s.stopped = true
	ids := make([]string, 0, len(s.timers))
	for id, t := range s.timers {
		t.Stop()
		ids = append(ids, id)
	}
	clear(s.timers)
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	s.logger.Info("autosave: flushing pending notes", slog.Int("count", len(ids)))

	g, gCtx := errgroup.WithContext(context.Background())
	g.SetLimit(shutdownParallelism)
	for _, id := range ids {
		g.Go(func() error {
			return s.flusher.Flush(gCtx, id)
		})
	}
	return g.Wait()
}

func (s *Saver) fire(id string) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()
	s.flush(context.Background(), id)
}

func (s *Saver) flush(ctx context.Context, id string) {
	if err := s.flusher.Flush(ctx, id); err != nil {
		s.logger.Error("autosave: flush failed", slog.String("id", id), slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("autosave: flushed", slog.String("id", id))
}
