// Package page shapes raw line windows into the pages handed to callers.
//
// A Page is the only view of a file a caller ever receives: a bounded run of
// lines, the number of its first line and where the cursor should sit. The
// builders here never fail on out-of-range requests. They return shorter or
// empty pages at file boundaries. Malformed requests with negative numbers
// are rejected with lines.ErrInvalidRange.
package page

import (
	"github.com/dshills/sourcebuf/internal/engine/cursor"
	"github.com/dshills/sourcebuf/internal/engine/lines"
)

// DefaultWindow is the number of lines in the first page of a loaded file.
const DefaultWindow = 50

// Page is a window of lines returned to a caller.
// Lines is never nil.
type Page struct {
	FileName     string
	StartingLine int
	Lines        []string
	CursorAt     cursor.Cursor
}

// Len returns the number of lines in the page.
func (p Page) Len() int {
	return len(p.Lines)
}

// IsEmpty reports whether the page holds no lines.
func (p Page) IsEmpty() bool {
	return len(p.Lines) == 0
}

// EndLine returns the line number one past the last line of the page.
func (p Page) EndLine() int {
	return p.StartingLine + len(p.Lines)
}

// Request asks for a window of Count lines relative to StartingLine.
type Request struct {
	FileName     string
	StartingLine int
	Count        int
	CursorAt     cursor.Cursor
}

// First returns the opening page of v: up to window lines from line 0 with
// the cursor at the origin. A non-positive window selects DefaultWindow.
func First(v lines.Version, window int) Page {
	if window <= 0 {
		window = DefaultWindow
	}
	got, _, _ := v.From(0, window)
	return Page{
		FileName: v.FileName(),
		Lines:    got,
	}
}

// Before returns the page of lines preceding the request's line. The
// starting line is the clamped start of the window and the cursor passes
// through unchanged.
func Before(v lines.Version, req Request) (Page, error) {
	got, start, err := v.Before(req.StartingLine, req.Count)
	if err != nil {
		return Page{}, err
	}
	return Page{
		FileName:     req.FileName,
		StartingLine: start,
		Lines:        got,
		CursorAt:     req.CursorAt,
	}, nil
}

// After returns the page of lines following the request's line. A non-empty
// page starts one past the requested line. An empty page keeps the requested
// line, which tells the caller there is nothing further.
func After(v lines.Version, req Request) (Page, error) {
	got, start, err := v.After(req.StartingLine, req.Count)
	if err != nil {
		return Page{}, err
	}
	if len(got) > 0 {
		start++
	}
	return Page{
		FileName:     req.FileName,
		StartingLine: start,
		Lines:        got,
		CursorAt:     req.CursorAt,
	}, nil
}

// From returns the page starting at the request's line and moves the cursor
// to the start of that line.
func From(v lines.Version, req Request) (Page, error) {
	got, start, err := v.From(req.StartingLine, req.Count)
	if err != nil {
		return Page{}, err
	}
	return Page{
		FileName:     req.FileName,
		StartingLine: start,
		Lines:        got,
		CursorAt:     cursor.LineStart(req.StartingLine),
	}, nil
}
