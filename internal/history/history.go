// Package history implements a bounded undo/redo stack of whole-buffer
// snapshots.
package history

// DefaultLimit is the number of undo snapshots kept when no limit is given.
const DefaultLimit = 20

// State summarises what the history can currently do.
type State string

const (
	StateClean         State = "clean"
	StateUndoAvailable State = "undo_available"
	StateRedoAvailable State = "redo_available"
)

// History holds undo and redo snapshots for one buffer. The zero value is
// not usable; call New.
//
// Only explicit edits are recorded: callers invoke RecordBeforeEdit right
// before a reversible operation. Free-form typing is not snapshotted.
type History struct {
	limit int
	undo  []string // oldest first
	redo  []string // next redo first
}

// New returns an empty history keeping at most limit undo snapshots.
// A non-positive limit selects DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Limit returns the maximum number of undo snapshots.
func (h *History) Limit() int { return h.limit }

// RecordBeforeEdit saves current as an undo snapshot and discards all redo
// history. The oldest snapshot is evicted once the limit is exceeded.
func (h *History) RecordBeforeEdit(current string) {
	h.pushUndo(current)
	h.redo = nil
}

// Undo returns the most recent snapshot and moves current to the front of
// the redo stack. ok is false when there is nothing to undo.
func (h *History) Undo(current string) (text string, ok bool) {
	n := len(h.undo)
	if n == 0 {
		return "", false
	}
	text = h.undo[n-1]
	h.undo[n-1] = ""
	h.undo = h.undo[:n-1]
	h.redo = append([]string{current}, h.redo...)
	return text, true
}

// Redo returns the next redo snapshot and pushes current back onto the undo
// stack. ok is false when there is nothing to redo.
func (h *History) Redo(current string) (text string, ok bool) {
	if len(h.redo) == 0 {
		return "", false
	}
	text = h.redo[0]
	h.redo = h.redo[1:]
	if len(h.redo) == 0 {
		h.redo = nil
	}
	h.pushUndo(current)
	return text, true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of undo and redo snapshots held.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// State reports the current state. A pending redo takes precedence.
func (h *History) State() State {
	switch {
	case len(h.redo) > 0:
		return StateRedoAvailable
	case len(h.undo) > 0:
		return StateUndoAvailable
	}
	return StateClean
}

// Reset drops all snapshots.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

func (h *History) pushUndo(s string) {
	h.undo = append(h.undo, s)
	if over := len(h.undo) - h.limit; over > 0 {
		// Copy so evicted snapshots are not pinned by the backing array.
		kept := make([]string, h.limit, h.limit+1)
		copy(kept, h.undo[over:])
		h.undo = kept
	}
}
