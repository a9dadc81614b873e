package engine

import (
	"fmt"

	"github.com/dshills/sourcebuf/internal/engine/cursor"
	"github.com/dshills/sourcebuf/internal/engine/lines"
	"github.com/dshills/sourcebuf/internal/engine/page"
)

// Re-export commonly used types for convenience.
type (
	// Page is a window of lines returned to a caller.
	Page = page.Page

	// PageRequest asks for a window of lines.
	PageRequest = page.Request

	// Cursor is a line/column position.
	Cursor = cursor.Cursor

	// FileInfo seeds a loaded file.
	FileInfo = lines.FileInfo

	// Edit is a structured mutation.
	Edit = lines.Edit
)

// SearchRequest asks for every occurrence of Pattern.
type SearchRequest struct {
	Pattern  string
	FileName string
}

// EditRequest replaces lines [StartingLine, EndingLine) with Lines.
// StartingLine and EndingLine are the bounds of the page the caller was
// last shown. Cursor is where the caller's cursor sat.
type EditRequest struct {
	StartingLine int
	EndingLine   int
	Lines        []string
	Cursor       cursor.Cursor
	FileName     string
}

// update converts the request into an UpdateLines edit.
func (r EditRequest) update() (lines.UpdateLines, error) {
	if r.StartingLine < 0 || r.EndingLine < r.StartingLine {
		return lines.UpdateLines{}, fmt.Errorf("%w: edit lines %d to %d", ErrInvalidRange, r.StartingLine, r.EndingLine)
	}
	return lines.UpdateLines{
		StartingLine: r.StartingLine,
		Count:        r.EndingLine - r.StartingLine,
		Lines:        r.Lines,
		Cursor:       r.Cursor,
	}, nil
}

// SearchReplaceRequest replaces every occurrence of Pattern with Replacement.
type SearchReplaceRequest struct {
	Pattern     string
	Replacement string
	FileName    string
}

func (r SearchReplaceRequest) edit() lines.SearchReplace {
	return lines.SearchReplace{Pattern: r.Pattern, Replacement: r.Replacement}
}
