// Package history provides snapshot-based undo/redo for a line store.
//
// Every mutation is preceded by Record, which pushes an independent clone of
// the active version onto the undo stack. Undo and Redo swap the active
// version with the top of the opposite stack:
//
//	h := history.New(history.WithMaxEntries(100))
//
//	h.Record(active, "Update lines 3-4")
//	_ = active.ApplyUpdate(update)
//
//	if prev, ok := h.Undo(active); ok {
//		active = prev
//	}
//
// # Redo Policy
//
// By default a fresh edit leaves the redo stack intact, so an undone change
// can still be redone after an unrelated edit. RedoClearOnEdit discards the
// redo stack on every Record instead, which is the usual editor convention.
//
// # Entries
//
// Each stack entry carries an OperationInfo with the edit description, the
// time it was recorded and the revision of the stored snapshot.
package history
