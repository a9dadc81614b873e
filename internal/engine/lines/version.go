package lines

import (
	"sync/atomic"
	"unicode/utf8"

	"github.com/dshills/sourcebuf/internal/engine/cursor"
	"github.com/dshills/sourcebuf/internal/engine/search"
)

// RevisionID uniquely identifies the content of a Version.
// Every mutation and every clone produces a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter atomic.Uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(revisionCounter.Add(1))
}

// Version is one file's lines at a point in time.
//
// Read methods return fresh slices the caller may keep or modify.
// The start values returned by Before, After and From follow the window
// conventions: Before reports the clamped first line of the window, After
// and From report the requested line unchanged.
type Version interface {
	// Revision returns the revision of the current content.
	Revision() RevisionID

	// Kind returns the storage strategy.
	Kind() Kind

	// FileName returns the file name the version was seeded with.
	FileName() string

	// Len returns the number of lines.
	Len() int

	// Line returns a single line and whether it exists.
	Line(n int) (string, bool)

	// AllLines returns every line in order.
	AllLines() []string

	// Before returns lines [max(0, line-count), line).
	Before(line, count int) ([]string, int, error)

	// After returns lines [line+1, min(line+count+1, Len())).
	After(line, count int) ([]string, int, error)

	// From returns lines [line, min(line+count, Len())).
	From(line, count int) ([]string, int, error)

	// ApplyUpdate splices u.Lines into the range described by u.
	ApplyUpdate(u UpdateLines) error

	// ApplySearchReplace replaces every occurrence of the pattern on every
	// line. Lines without an occurrence are left untouched.
	ApplySearchReplace(sr SearchReplace)

	// Apply applies edits in order. Nothing is applied if any edit is
	// malformed.
	Apply(edits ...Edit) error

	// Cursors returns the position of every match of pattern, line by line
	// in increasing order. An empty pattern yields no cursors.
	Cursors(pattern string, alg search.Algorithm) []cursor.Cursor

	// Clone returns an independent copy of the same kind.
	Clone() Version
}

// New creates a Version of the given kind seeded from info.
// The lines of info are copied.
func New(kind Kind, info FileInfo, opts ...Option) (Version, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch kind {
	case Contiguous:
		return NewContiguous(info), nil
	case Linked:
		return NewLinked(info), nil
	case Paged:
		return NewPaged(info, cfg.bucketSize), nil
	default:
		return nil, ErrUnknownKind
	}
}

// appendCursors runs m over one line and appends a cursor per match.
// The matcher reports byte offsets; cursors carry character offsets.
func appendCursors(out []cursor.Cursor, m *search.Matcher, lineNo int, text string) []cursor.Cursor {
	prev, col := 0, 0
	for _, off := range m.FindAll(text) {
		col += utf8.RuneCountInString(text[prev:off])
		prev = off
		out = append(out, cursor.New(lineNo, col))
	}
	return out
}
