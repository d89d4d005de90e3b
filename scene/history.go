package scene

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 200

// History is the undo log: a bounded stack of applied actions and a stack
// of undone ones waiting for redo.
type History struct {
	undoStack []Action
	redoStack []Action
	limit     int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records an action that has already been applied. Any redo entries
// are dropped, and the oldest entry goes once the limit is exceeded.
func (h *History) Push(a Action) {
	h.undoStack = append(h.undoStack, a)
	if len(h.undoStack) > h.limit {
		copy(h.undoStack, h.undoStack[1:])
		h.undoStack[len(h.undoStack)-1] = nil
		h.undoStack = h.undoStack[:len(h.undoStack)-1]
	}
	clear(h.redoStack)
	h.redoStack = h.redoStack[:0]
}

// Undo pops the newest action, reverses it and keeps it for Redo.
func (h *History) Undo() (Action, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	lastIndex := len(h.undoStack) - 1
	action := h.undoStack[lastIndex]
	h.undoStack[lastIndex] = nil
	h.undoStack = h.undoStack[:lastIndex]

	action.Undo()

	h.redoStack = append(h.redoStack, action)
	return action, true
}

// Redo replays the most recently undone action.
func (h *History) Redo() (Action, bool) {
	if len(h.redoStack) == 0 {
		return nil, false
	}
	lastIndex := len(h.redoStack) - 1
	action := h.redoStack[lastIndex]
	h.redoStack[lastIndex] = nil
	h.redoStack = h.redoStack[:lastIndex]

	action.Execute()

	h.undoStack = append(h.undoStack, action)
	return action, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Len returns the depth of both stacks.
func (h *History) Len() (undo, redo int) {
	return len(h.undoStack), len(h.redoStack)
}

// Peek returns the action Undo would reverse next, or nil.
func (h *History) Peek() Action {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

func (h *History) Clear() {
	clear(h.undoStack)
	clear(h.redoStack)
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}
