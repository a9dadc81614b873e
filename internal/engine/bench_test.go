package engine

import (
	"testing"

	"github.com/dshills/sourcebuf/internal/engine/lines"
)

func benchHandler(b *testing.B, kind lines.Kind) *Handler {
	b.Helper()
	h := New(WithKind(kind))
	if _, err := h.LoadFile(lines.NewFileInfo("bench", numbered(200000))); err != nil {
		b.Fatal(err)
	}
	return h
}

func BenchmarkEditUndo(b *testing.B) {
	for _, kind := range []lines.Kind{lines.Contiguous, lines.Linked, lines.Paged} {
		b.Run(kind.String(), func(b *testing.B) {
			h := benchHandler(b, kind)
			b.ResetTimer()
			for b.Loop() {
				_ = h.EditLines(EditRequest{StartingLine: 100000, EndingLine: 100001, Lines: []string{"x"}})
				h.Undo()
			}
		})
	}
}

func BenchmarkNextLines(b *testing.B) {
	for _, kind := range []lines.Kind{lines.Contiguous, lines.Linked, lines.Paged} {
		b.Run(kind.String(), func(b *testing.B) {
			h := benchHandler(b, kind)
			b.ResetTimer()
			for b.Loop() {
				_, _ = h.NextLines(PageRequest{StartingLine: 150000, Count: 50})
			}
		})
	}
}
