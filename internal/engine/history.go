package engine

import "github.com/zjrosen/mergefield/internal/surface"

// snapshot is the editable state a history entry restores.
type snapshot struct {
	surf  *surface.Surface
	caret int
}

// change is one undoable edit. Undo restores before; redo restores after.
type change struct {
	id     string
	before snapshot
	after  snapshot
}

// history is a linear undo stack. undoIndex points at the last applied
// change; -1 is the base state. Pushing after an undo discards the redo tail.
type history struct {
	changes   []change
	undoIndex int
	limit     int
}

func newHistory(limit int) *history {
	return &history{undoIndex: -1, limit: limit}
}

func (h *history) push(c change) {
	h.changes = append(h.changes[:h.undoIndex+1], c)
	if h.limit > 0 && len(h.changes) > h.limit {
		h.changes = h.changes[len(h.changes)-h.limit:]
	}
	h.undoIndex = len(h.changes) - 1
}

// undo returns the snapshot to restore, or false at the base state.
func (h *history) undo() (change, bool) {
	if h.undoIndex < 0 {
		return change{}, false
	}
	c := h.changes[h.undoIndex]
	h.undoIndex--
	return c, true
}

// redo returns the next change, or false when at the latest one.
func (h *history) redo() (change, bool) {
	if h.undoIndex >= len(h.changes)-1 {
		return change{}, false
	}
	h.undoIndex++
	return h.changes[h.undoIndex], true
}

func (h *history) canUndo() bool { return h.undoIndex >= 0 }

func (h *history) canRedo() bool { return h.undoIndex < len(h.changes)-1 }

func (h *history) clear() {
	h.changes = h.changes[:0]
	h.undoIndex = -1
}
