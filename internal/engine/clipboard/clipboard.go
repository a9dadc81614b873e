// Package clipboard holds the lines most recently copied in a session.
package clipboard

import (
	"slices"
	"sync"
)

// CopyBuffer is an ordered run of copied lines.
type CopyBuffer struct {
	Lines []string
}

// New creates a copy buffer holding a copy of lines.
func New(lines ...string) CopyBuffer {
	return CopyBuffer{Lines: nonNil(lines)}
}

// Len returns the number of lines.
func (b CopyBuffer) Len() int {
	return len(b.Lines)
}

// IsEmpty reports whether the buffer holds no lines.
func (b CopyBuffer) IsEmpty() bool {
	return len(b.Lines) == 0
}

// Holder stores the last CopyBuffer. The zero value is an empty holder.
// A Holder is safe for concurrent use so that several handlers can share it.
type Holder struct {
	mu  sync.Mutex
	buf CopyBuffer
}

// Set replaces the held buffer.
func (h *Holder) Set(b CopyBuffer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf = CopyBuffer{Lines: nonNil(b.Lines)}
}

// Get returns the last stored buffer, or an empty buffer if nothing was
// stored. The returned Lines are never nil.
func (h *Holder) Get() CopyBuffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return CopyBuffer{Lines: nonNil(h.buf.Lines)}
}

// Clear empties the holder.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf = CopyBuffer{}
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return slices.Clone(lines)
}
