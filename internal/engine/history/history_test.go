package history

import (
	"errors"
	"slices"
	"testing"

	"github.com/dshills/sourcebuf/internal/engine/lines"
)

func newActive(t *testing.T, content ...string) lines.Version {
	t.Helper()
	v, err := lines.New(lines.Contiguous, lines.NewFileInfo("test.txt", content))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// edit records active and then applies u, the way a handler does.
func edit(t *testing.T, h *History, active lines.Version, u lines.UpdateLines) {
	t.Helper()
	h.Record(active, u.Description())
	if err := active.ApplyUpdate(u); err != nil {
		t.Fatal(err)
	}
}

func assertLines(t *testing.T, v lines.Version, want ...string) {
	t.Helper()
	if got := v.AllLines(); !slices.Equal(got, want) {
		t.Errorf("lines = %v, want %v", got, want)
	}
}

func TestNewHistoryEmpty(t *testing.T) {
	h := New()
	if h.CanUndo() || h.CanRedo() {
		t.Error("new history should have nothing to undo or redo")
	}
	if h.MaxEntries() != 0 {
		t.Errorf("MaxEntries() = %d, want unbounded", h.MaxEntries())
	}
	if h.Policy() != RedoPreserve {
		t.Errorf("Policy() = %v, want preserve", h.Policy())
	}
}

func TestUndoRedoEmptyIsNoOp(t *testing.T) {
	h := New()
	active := newActive(t, "a")

	if v, ok := h.Undo(active); ok || v != nil {
		t.Error("Undo on empty stack should report false")
	}
	if v, ok := h.Redo(active); ok || v != nil {
		t.Error("Redo on empty stack should report false")
	}
	if h.UndoCount() != 0 || h.RedoCount() != 0 {
		t.Error("no-op undo/redo should not push anything")
	}
}

func TestRecordSnapshotIsIndependent(t *testing.T) {
	h := New()
	active := newActive(t, "a", "b")
	edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{"X"}})

	prev, ok := h.Undo(active)
	if !ok {
		t.Fatal("Undo should succeed")
	}
	assertLines(t, prev, "a", "b")
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New()
	active := newActive(t, "a", "b", "c", "d")
	u := lines.UpdateLines{StartingLine: 1, Count: 2, Lines: []string{"X"}}
	edit(t, h, active, u)
	assertLines(t, active, "a", "X", "d")

	active, _ = h.Undo(active)
	assertLines(t, active, "a", "b", "c", "d")
	if h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Errorf("after undo: undo=%d redo=%d", h.UndoCount(), h.RedoCount())
	}

	active, _ = h.Redo(active)
	assertLines(t, active, "a", "X", "d")
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("after redo: undo=%d redo=%d", h.UndoCount(), h.RedoCount())
	}
}

func TestMultipleUndo(t *testing.T) {
	h := New()
	active := newActive(t, "0")
	for _, s := range []string{"1", "2", "3"} {
		edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{s}})
	}

	for _, want := range []string{"2", "1", "0"} {
		var ok bool
		active, ok = h.Undo(active)
		if !ok {
			t.Fatal("expected undo")
		}
		assertLines(t, active, want)
	}
	if _, ok := h.Undo(active); ok {
		t.Error("history should be exhausted")
	}
	for _, want := range []string{"1", "2", "3"} {
		active, _ = h.Redo(active)
		assertLines(t, active, want)
	}
}

func TestRedoPolicy(t *testing.T) {
	tests := []struct {
		policy       RedoPolicy
		wantRedo     int
		wantAfterRed []string
	}{
		{RedoPreserve, 1, []string{"B"}},
		{RedoClearOnEdit, 0, []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			h := New(WithRedoPolicy(tt.policy))
			active := newActive(t, "A")
			edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{"B"}})
			active, _ = h.Undo(active)
			edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{"C"}})

			if h.RedoCount() != tt.wantRedo {
				t.Fatalf("RedoCount() = %d, want %d", h.RedoCount(), tt.wantRedo)
			}
			if next, ok := h.Redo(active); ok {
				active = next
			}
			assertLines(t, active, tt.wantAfterRed...)
		})
	}
}

func TestMaxEntries(t *testing.T) {
	h := New(WithMaxEntries(2))
	active := newActive(t, "0")
	for _, s := range []string{"1", "2", "3"} {
		edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{s}})
	}
	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", h.UndoCount())
	}
	active, _ = h.Undo(active)
	active, _ = h.Undo(active)
	assertLines(t, active, "1")
	if h.CanUndo() {
		t.Error("oldest snapshot should have been evicted")
	}
}

func TestSetMaxEntries(t *testing.T) {
	h := New()
	active := newActive(t, "0")
	for range 5 {
		edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 0, Lines: []string{"x"}})
	}
	h.SetMaxEntries(3)
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", h.UndoCount())
	}
	h.SetMaxEntries(-1)
	if h.MaxEntries() != 0 {
		t.Errorf("negative bound should mean unbounded, got %d", h.MaxEntries())
	}
}

func TestInfoAndPeek(t *testing.T) {
	h := New()
	active := newActive(t, "a", "b")

	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo on empty history should report false")
	}

	u1 := lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{"x"}}
	u2 := lines.UpdateLines{StartingLine: 2, Count: 0, Lines: []string{"c"}}
	edit(t, h, active, u1)
	edit(t, h, active, u2)

	info, ok := h.PeekUndo()
	if !ok || info.Description != u2.Description() {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}
	if info.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if info.Lines != 2 {
		t.Errorf("snapshot line count = %d, want 2", info.Lines)
	}

	all := h.UndoInfo()
	if len(all) != 2 || all[0].Description != u1.Description() {
		t.Errorf("UndoInfo() = %+v", all)
	}
	if all[0].Revision == all[1].Revision {
		t.Error("snapshots should have distinct revisions")
	}

	active, _ = h.Undo(active)
	redo, ok := h.PeekRedo()
	if !ok || redo.Description != u2.Description() {
		t.Errorf("PeekRedo() = %+v, %v", redo, ok)
	}
	if len(h.RedoInfo()) != 1 {
		t.Errorf("RedoInfo() length = %d", len(h.RedoInfo()))
	}
	_ = active
}

func TestClear(t *testing.T) {
	h := New()
	active := newActive(t, "a")
	edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{"b"}})
	edit(t, h, active, lines.UpdateLines{StartingLine: 0, Count: 1, Lines: []string{"c"}})
	active, _ = h.Undo(active)

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
	assertLines(t, active, "b")
}

func TestRoundTripAllKinds(t *testing.T) {
	for _, kind := range []lines.Kind{lines.Contiguous, lines.Linked, lines.Paged} {
		t.Run(kind.String(), func(t *testing.T) {
			seed := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
			active, err := lines.New(kind, lines.NewFileInfo("f", seed), lines.WithBucketSize(2))
			if err != nil {
				t.Fatal(err)
			}
			h := New()

			h.Record(active, "replace")
			active.ApplySearchReplace(lines.SearchReplace{Pattern: "a", Replacement: "A"})
			edited := active.AllLines()

			active, _ = h.Undo(active)
			assertLines(t, active, seed...)
			active, _ = h.Redo(active)
			assertLines(t, active, edited...)
			if active.Kind() != kind {
				t.Errorf("kind changed across undo/redo: %v", active.Kind())
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want RedoPolicy
	}{
		{"", RedoPreserve},
		{"preserve", RedoPreserve},
		{"CLEAR", RedoClearOnEdit},
		{"clear-on-edit", RedoClearOnEdit},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParsePolicy("branch"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}
}
