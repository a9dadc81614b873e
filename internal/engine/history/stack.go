package history

import (
	"sync"
	"time"

	"github.com/dshills/sourcebuf/internal/engine/lines"
)

// OperationInfo describes a history entry for display.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
	Revision    lines.RevisionID
	Lines       int
}

// entry is a snapshot with metadata. The snapshot is owned by the stack.
type entry struct {
	version lines.Version
	info    OperationInfo
}

func newEntry(v lines.Version, description string) *entry {
	snap := v.Clone()
	return &entry{
		version: snap,
		info: OperationInfo{
			Description: description,
			Timestamp:   time.Now(),
			Revision:    snap.Revision(),
			Lines:       snap.Len(),
		},
	}
}

// History holds the undo and redo stacks of one handler.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	// Configuration
	maxEntries int
	policy     RedoPolicy
}

// Option configures a History.
type Option func(*History)

// WithMaxEntries bounds each stack. Zero or a negative value means unbounded.
func WithMaxEntries(n int) Option {
	return func(h *History) {
		h.maxEntries = max(n, 0)
	}
}

// WithRedoPolicy sets the redo policy.
func WithRedoPolicy(p RedoPolicy) Option {
	return func(h *History) {
		h.policy = p
	}
}

// New creates an empty history. Both stacks are unbounded by default.
func New(opts ...Option) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record pushes a clone of active onto the undo stack. Call it before
// mutating active.
func (h *History) Record(active lines.Version, description string) {
	e := newEntry(active, description)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = h.pushLocked(h.undoStack, e)
	if h.policy == RedoClearOnEdit {
		h.redoStack = nil
	}
}

// pushLocked appends e and evicts the oldest entries beyond maxEntries.
func (h *History) pushLocked(stack []*entry, e *entry) []*entry {
	stack = append(stack, e)
	if h.maxEntries > 0 && len(stack) > h.maxEntries {
		excess := len(stack) - h.maxEntries
		clear(stack[:excess])
		stack = stack[excess:]
	}
	return stack
}

// Undo pops the most recent snapshot and returns it as the new active
// version. A clone of active is pushed onto the redo stack. It reports false,
// and leaves both stacks alone, when there is nothing to undo.
func (h *History) Undo(active lines.Version) (lines.Version, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return nil, false
	}
	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack[len(h.undoStack)-1] = nil
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	h.redoStack = h.pushLocked(h.redoStack, newEntry(active, top.info.Description))
	return top.version, true
}

// Redo is the mirror of Undo.
func (h *History) Redo(active lines.Version) (lines.Version, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, false
	}
	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack[len(h.redoStack)-1] = nil
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	h.undoStack = h.pushLocked(h.undoStack, newEntry(active, top.info.Description))
	return top.version, true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo returns info about available undo operations, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo returns info about available redo operations, oldest first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos(stack []*entry) []OperationInfo {
	result := make([]OperationInfo, len(stack))
	for i, e := range stack {
		result[i] = e.info
	}
	return result
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info, true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info, true
}

// SetMaxEntries changes the stack bound. Zero means unbounded.
// If a stack is larger than the new bound, its oldest entries are removed.
func (h *History) SetMaxEntries(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max(n, 0)
	if h.maxEntries == 0 {
		return
	}
	for _, stack := range []*[]*entry{&h.undoStack, &h.redoStack} {
		if excess := len(*stack) - h.maxEntries; excess > 0 {
			*stack = (*stack)[excess:]
		}
	}
}

// MaxEntries returns the stack bound, zero meaning unbounded.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

// Policy returns the redo policy.
func (h *History) Policy() RedoPolicy {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.policy
}
