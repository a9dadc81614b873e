// Package engine provides the windowed, versioned text buffer for sourcebuf.
//
// The Handler is the facade for one open file. It combines the line store,
// snapshot history, page builder and copy buffer into a single API that is
// safe to call from multiple goroutines.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - lines: the Version interface and its Contiguous, Linked and Paged stores
//   - search: naive and linear-time substring search
//   - history: undo/redo stacks of version snapshots
//   - page: turns raw line windows into caller-facing pages
//   - clipboard: the copy buffer holder
//   - cursor: line/column positions
//
// # Basic Usage
//
//	h := engine.New(engine.WithKind(lines.Paged))
//
//	first, _ := h.LoadFile(lines.NewFileInfo("main.go", content))
//
//	// Page forward from the last line shown
//	next, _ := h.NextLines(engine.PageRequest{
//		StartingLine: first.EndLine() - 1,
//		Count:        50,
//	})
//
//	// Replace lines 10-11 with one line, then take it back
//	_ = h.EditLines(engine.EditRequest{StartingLine: 10, EndingLine: 12, Lines: []string{"x"}})
//	h.Undo()
//
// # Windowing
//
// Reads never return more than the requested window and never fail at file
// boundaries. PrevLines reports the clamped first line of its window.
// NextLines reports one past the requested line when it found lines, and the
// requested line itself when there were none. LinesFrom moves the cursor to
// the start of the requested line.
//
// # History
//
// Every edit first records an independent snapshot of the active version.
// Undo and Redo swap the active version with the top of the opposite stack.
// Malformed requests are rejected with ErrInvalidRange before anything is
// recorded. Empty search-and-replace patterns are no-ops and record nothing.
// Whether a new edit discards the redo stack is set with WithRedoPolicy.
package engine
