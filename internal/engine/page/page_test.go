package page

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/dshills/sourcebuf/internal/engine/cursor"
	"github.com/dshills/sourcebuf/internal/engine/lines"
)

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("L%d", i)
	}
	return out
}

func newVersion(t *testing.T, kind lines.Kind, n int) lines.Version {
	t.Helper()
	v, err := lines.New(kind, lines.NewFileInfo("demo.txt", numbered(n)), lines.WithBucketSize(7))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestFirst(t *testing.T) {
	tests := []struct {
		size   int
		window int
		want   int
	}{
		{100, 0, DefaultWindow},
		{10, 0, 10},
		{0, 0, 0},
		{100, 20, 20},
	}
	for _, tt := range tests {
		v := newVersion(t, lines.Contiguous, tt.size)
		p := First(v, tt.window)
		if p.Len() != tt.want {
			t.Errorf("size %d window %d: got %d lines, want %d", tt.size, tt.window, p.Len(), tt.want)
		}
		if p.StartingLine != 0 || !p.CursorAt.IsZero() {
			t.Errorf("first page should start at 0 with cursor at origin, got %d %s", p.StartingLine, p.CursorAt)
		}
		if p.Lines == nil {
			t.Error("Lines must never be nil")
		}
		if p.FileName != "demo.txt" {
			t.Errorf("FileName = %q", p.FileName)
		}
	}
}

func TestBefore(t *testing.T) {
	v := newVersion(t, lines.Contiguous, 100)
	in := cursor.New(42, 7)

	p, err := Before(v, Request{FileName: "demo.txt", StartingLine: 30, Count: 10, CursorAt: in})
	if err != nil {
		t.Fatal(err)
	}
	if p.StartingLine != 20 || !slices.Equal(p.Lines, numbered(100)[20:30]) {
		t.Errorf("got %v from %d", p.Lines, p.StartingLine)
	}
	if p.CursorAt != in {
		t.Errorf("cursor should pass through, got %s", p.CursorAt)
	}

	p, _ = Before(v, Request{StartingLine: 3, Count: 10})
	if p.StartingLine != 0 || p.Len() != 3 {
		t.Errorf("clamped window: %d lines from %d", p.Len(), p.StartingLine)
	}
}

func TestAfter(t *testing.T) {
	v := newVersion(t, lines.Contiguous, 100)
	in := cursor.New(5, 2)

	p, err := After(v, Request{StartingLine: 10, Count: 5, CursorAt: in})
	if err != nil {
		t.Fatal(err)
	}
	if p.StartingLine != 11 || !slices.Equal(p.Lines, []string{"L11", "L12", "L13", "L14", "L15"}) {
		t.Errorf("got %v from %d", p.Lines, p.StartingLine)
	}
	if p.CursorAt != in {
		t.Errorf("cursor should pass through, got %s", p.CursorAt)
	}

	p, _ = After(v, Request{StartingLine: 99, Count: 5, CursorAt: in})
	if !p.IsEmpty() || p.StartingLine != 99 {
		t.Errorf("past the end: %v from %d, want empty from 99", p.Lines, p.StartingLine)
	}
	if p.Lines == nil {
		t.Error("Lines must never be nil")
	}
}

func TestFrom(t *testing.T) {
	v := newVersion(t, lines.Contiguous, 100)

	p, err := From(v, Request{StartingLine: 10, Count: 35, CursorAt: cursor.New(77, 3)})
	if err != nil {
		t.Fatal(err)
	}
	if p.StartingLine != 10 || p.Len() != 35 || p.Lines[0] != "L10" || p.Lines[34] != "L44" {
		t.Errorf("got %d lines from %d", p.Len(), p.StartingLine)
	}
	if p.CursorAt != cursor.New(10, 0) {
		t.Errorf("cursor = %s, want (10:0)", p.CursorAt)
	}
	if p.EndLine() != 45 {
		t.Errorf("EndLine() = %d, want 45", p.EndLine())
	}

	p, _ = From(v, Request{StartingLine: 500, Count: 5})
	if !p.IsEmpty() || p.StartingLine != 500 {
		t.Errorf("past the end: %v from %d", p.Lines, p.StartingLine)
	}
}

func TestRejectsNegative(t *testing.T) {
	v := newVersion(t, lines.Contiguous, 10)
	req := Request{StartingLine: -1, Count: 2}

	builders := map[string]func(lines.Version, Request) (Page, error){
		"Before": Before,
		"After":  After,
		"From":   From,
	}
	for name, build := range builders {
		if _, err := build(v, req); !errors.Is(err, lines.ErrInvalidRange) {
			t.Errorf("%s: expected ErrInvalidRange, got %v", name, err)
		}
	}
}

// TestPagedMatchesContiguous walks both stores with the same requests and
// expects identical pages.
func TestPagedMatchesContiguous(t *testing.T) {
	contiguous := newVersion(t, lines.Contiguous, 123)
	paged := newVersion(t, lines.Paged, 123)

	var requests []Request
	for line := 0; line < 130; line += 3 {
		for _, count := range []int{0, 1, 6, 7, 8, 50} {
			requests = append(requests, Request{StartingLine: line, Count: count, CursorAt: cursor.New(line, 1)})
		}
	}

	builders := []func(lines.Version, Request) (Page, error){Before, After, From}
	for _, req := range requests {
		for i, build := range builders {
			want, err1 := build(contiguous, req)
			got, err2 := build(paged, req)
			if err1 != nil || err2 != nil {
				t.Fatalf("unexpected errors: %v, %v", err1, err2)
			}
			if !slices.Equal(got.Lines, want.Lines) || got.StartingLine != want.StartingLine || got.CursorAt != want.CursorAt {
				t.Fatalf("builder %d request %+v: paged %+v, contiguous %+v", i, req, got, want)
			}
		}
	}
}
