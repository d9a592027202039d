package engine

import "github.com/auro-editor/auro/internal/document"

// DefaultHistoryDepth is the number of undo entries kept.
const DefaultHistoryDepth = 20

// History keeps linear undo/redo stacks of deep-copied scenes.
type History struct {
	undo  [][]*document.Object
	redo  [][]*document.Object
	depth int
}

// NewHistory creates a history bounded to depth undo entries.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

// Snapshot records a copy of scene as the state to return to on undo and
// discards the redo stack.
func (h *History) Snapshot(scene []*document.Object) {
	h.push(document.CloneObjects(scene))
}

// push records an entry that is already a private copy.
func (h *History) push(entry []*document.Object) {
	if entry == nil {
		entry = []*document.Object{}
	}
	h.undo = append(h.undo, entry)
	if len(h.undo) > h.depth {
		h.undo[0] = nil
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo pops the most recent entry, saving a copy of current for redo.
func (h *History) Undo(current []*document.Object) ([]*document.Object, error) {
	if len(h.undo) == 0 {
		return nil, ErrEmptyHistory
	}
	h.redo = append(h.redo, document.CloneObjects(current))
	last := len(h.undo) - 1
	prev := h.undo[last]
	h.undo = h.undo[:last]
	return prev, nil
}

// Redo pops the most recently undone entry, saving a copy of current for
// undo. The undo stack stays bounded.
func (h *History) Redo(current []*document.Object) ([]*document.Object, error) {
	if len(h.redo) == 0 {
		return nil, ErrEmptyRedo
	}
	h.undo = append(h.undo, document.CloneObjects(current))
	if len(h.undo) > h.depth {
		h.undo = h.undo[1:]
	}
	last := len(h.redo) - 1
	next := h.redo[last]
	h.redo = h.redo[:last]
	return next, nil
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// UndoDepth returns the number of undo entries.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of redo entries.
func (h *History) RedoDepth() int { return len(h.redo) }
