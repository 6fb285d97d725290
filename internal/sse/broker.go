// Package sse pushes note and checklist changes to open editors over
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"
)

// Event is one frame sent to every subscriber.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event types.
const (
	TypeNoteCreated  = "note.created"
	TypeNoteUpdated  = "note.updated"
	TypeNoteDeleted  = "note.deleted"
	TypeTasksUpdated = "tasks.updated"
)

const (
	clientBuffer      = 64
	keepAliveInterval = 25 * time.Second
	retryMillis       = 3000
)

var noteEventTypes = map[string]string{
	"created": TypeNoteCreated,
	"updated": TypeNoteUpdated,
	"deleted": TypeNoteDeleted,
}

// NoteChange is the payload of note.* events.
type NoteChange struct {
	ID           string `json:"id"`
	TasksChanged bool   `json:"tasks_changed"`
}

// TasksChange is the payload of tasks.updated. IDs lists every note whose
// checklist changed since the previous tasks.updated.
type TasksChange struct {
	IDs []string `json:"ids"`
}

// Broker fans events out to subscribers. Slow subscribers lose frames
// rather than block publishers.
//
// tasks.updated is rate limited to one frame per window. Changes arriving
// inside the window are coalesced into a single trailing frame so the last
// change is never lost.
type Broker struct {
	window time.Duration

	mu        sync.Mutex
	clients   map[chan []byte]struct{}
	seq       uint64
	closed    bool
	lastTasks time.Time
	pending   map[string]struct{}
	trailing  *time.Timer
}

// NewBroker returns a broker that sends tasks.updated at most once per
// tasksThrottle. A non-positive value means two seconds.
func NewBroker(tasksThrottle time.Duration) *Broker {
	if tasksThrottle <= 0 {
		tasksThrottle = 2 * time.Second
	}
	return &Broker{
		window:  tasksThrottle,
		clients: make(map[chan []byte]struct{}),
		pending: make(map[string]struct{}),
	}
}

// Subscribe registers a client. The returned channel is closed by
// Unsubscribe or Close; on a closed broker it is returned already closed.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.clients[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Publish sends event to every client.
func (b *Broker) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcastLocked(event)
}

// PublishNoteEvent publishes a note change. kind is "created", "updated" or
// "deleted"; other kinds are ignored. When tasksChanged is set the note is
// also reported through tasks.updated.
func (b *Broker) PublishNoteEvent(kind, id string, tasksChanged bool) {
	typ, ok := noteEventTypes[kind]
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.broadcastLocked(Event{Type: typ, Data: NoteChange{ID: id, TasksChanged: tasksChanged}})
	if tasksChanged {
		b.tasksChangedLocked(id, time.Now())
	}
}

func (b *Broker) tasksChangedLocked(id string, now time.Time) {
	b.pending[id] = struct{}{}
	if b.trailing != nil {
		return
	}
	if wait := b.window - now.Sub(b.lastTasks); wait > 0 {
		b.trailing = time.AfterFunc(wait, b.flushTasks)
		return
	}
	b.emitTasksLocked(now)
}

func (b *Broker) flushTasks() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trailing = nil
	if b.closed || len(b.pending) == 0 {
		return
	}
	b.emitTasksLocked(time.Now())
}

func (b *Broker) emitTasksLocked(now time.Time) {
	ids := make([]string, 0, len(b.pending))
	for id := range b.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	clear(b.pending)
	b.lastTasks = now
	b.broadcastLocked(Event{Type: TypeTasksUpdated, Data: TasksChange{IDs: ids}})
}

func (b *Broker) broadcastLocked(event Event) {
	if b.closed || len(b.clients) == 0 {
		return
	}
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return
	}
	b.seq++
	frame := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", b.seq, event.Type, payload))
	for ch := range b.clients {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Close disconnects every client and drops pending task notifications.
// Later calls are no-ops.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.trailing != nil {
		b.trailing.Stop()
		b.trailing = nil
	}
	for ch := range b.clients {
		close(ch)
	}
	clear(b.clients)
}

// ServeHTTP streams events to one client until the request context ends or
// the broker closes. A comment line is written periodically so proxies keep
// the connection open.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	ping := time.NewTicker(keepAliveInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case frame, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
