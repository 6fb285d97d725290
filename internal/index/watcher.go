package index

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/notegenius/internal/apperr"
	"github.com/starford/notegenius/internal/checksum"
	"github.com/starford/notegenius/internal/storage"
)

// Change kinds reported to an EventCallback.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// settleDelay is how long the store must be quiet before touched notes are
// re-read. Editors often save in several writes.
const settleDelay = 150 * time.Millisecond

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind string, id string)

type watcher struct {
	db     *DB
	store  storage.Provider
	logger *slog.Logger
	cb     EventCallback

	touched map[string]struct{}
	renamed bool
	settle  *time.Timer
	settleC <-chan time.Time
}

// Watch follows the store root until ctx is cancelled and keeps the index
// in step with edits made outside this process. Events are collected until
// the directory settles, then each touched note is compared with its
// indexed checksum, so saves made by the service itself are silent. A
// rename also triggers a full Reconcile because fsnotify only names the
// old path.
func Watch(ctx context.Context, db *DB, store storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", root))

	w := &watcher{db: db, store: store, logger: logger, cb: cb, touched: map[string]struct{}{}}
	defer w.stopSettle()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.observe(ev)
		case <-w.settleC:
			w.flush()
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", werr.Error()))
		}
	}
}

func (w *watcher) observe(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	id, ok := storage.IDFromName(filepath.Base(ev.Name))
	if !ok {
		return
	}
	w.touched[id] = struct{}{}
	if ev.Has(fsnotify.Rename) {
		w.renamed = true
	}
	if w.settle == nil {
		w.settle = time.NewTimer(settleDelay)
		w.settleC = w.settle.C
		return
	}
	w.settle.Reset(settleDelay)
}

func (w *watcher) stopSettle() {
	if w.settle != nil {
		w.settle.Stop()
	}
}

func (w *watcher) flush() {
	ids := slices.Sorted(maps.Keys(w.touched))
	clear(w.touched)
	renamed := w.renamed
	w.renamed = false

	for _, id := range ids {
		kind, err := w.apply(id)
		if err != nil {
			w.logger.Warn("watcher: index failed", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		w.emit(kind, id)
	}

	if !renamed {
		return
	}
	changes, err := Reconcile(w.db, w.store, w.logger)
	if err != nil {
		w.logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
		return
	}
	for _, c := range changes {
		w.emit(c.Kind, c.ID)
	}
}

func (w *watcher) emit(kind, id string) {
	if kind == "" {
		return
	}
	w.logger.Debug("watcher: indexed", slog.String("id", id), slog.String("op", kind))
	if w.cb != nil {
		w.cb(kind, id)
	}
}

// apply re-reads id and updates the index. It returns the kind of change
// made, or "" when the index already matched the file.
func (w *watcher) apply(id string) (string, error) {
	prev, err := w.db.GetChecksum(id)
	if err != nil {
		return "", err
	}
	data, err := w.store.Read(id)
	if errors.Is(err, apperr.ErrNotFound) {
		if prev == "" {
			return "", nil
		}
		if err := w.db.DeleteNote(id); err != nil {
			return "", err
		}
		return KindDeleted, nil
	}
	if err != nil {
		return "", err
	}
	if prev == checksum.Sum(data) {
		return "", nil
	}
	modTime, err := w.store.ModTime(id)
	if err != nil {
		modTime = time.Now()
	}
	if err := IndexFile(w.db, id, data, modTime); err != nil {
		return "", err
	}
	if prev == "" {
		return KindCreated, nil
	}
	return KindUpdated, nil
}
