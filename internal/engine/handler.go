package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/sourcebuf/internal/engine/clipboard"
	"github.com/dshills/sourcebuf/internal/engine/history"
	"github.com/dshills/sourcebuf/internal/engine/lines"
	"github.com/dshills/sourcebuf/internal/engine/page"
	"github.com/dshills/sourcebuf/internal/engine/search"
	"github.com/dshills/sourcebuf/internal/logging"
)

// Handler owns one open file: its active version, the undo and redo
// snapshot stacks and a copy buffer holder.
//
// All operations are serialized by a single mutex, so a Handler may be
// shared between goroutines, but each call runs to completion before the
// next one starts.
type Handler struct {
	mu sync.Mutex

	id        string
	active    lines.Version
	history   *history.History
	clipboard *clipboard.Holder
	logger    *logging.Logger

	// view is the window the caller was editing at the last EditLines.
	view page.Request

	// Configuration
	kind           lines.Kind
	bucketSize     int
	initialWindow  int
	maxUndoEntries int
	redoPolicy     history.RedoPolicy
	algorithm      search.Algorithm
}

// New creates an empty Handler. Call LoadFile before any other operation.
func New(opts ...Option) *Handler {
	h := &Handler{
		id:            uuid.New().String(),
		kind:          DefaultKind,
		bucketSize:    DefaultBucketSize,
		initialWindow: DefaultInitialWindow,
		algorithm:     search.Linear,
		logger:        logging.Null(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.clipboard == nil {
		h.clipboard = &clipboard.Holder{}
	}
	h.logger = h.logger.WithComponent("engine").WithField("handler", h.id[:8])
	h.history = history.New(
		history.WithMaxEntries(h.maxUndoEntries),
		history.WithRedoPolicy(h.redoPolicy),
	)
	return h
}

// ID returns the handler's unique session identifier.
func (h *Handler) ID() string {
	return h.id
}

// ============================================================================
// Loading
// ============================================================================

// LoadFile replaces the active version with a new one built from info and
// clears both history stacks. It returns the first page of the file with
// the cursor at the origin.
func (h *Handler) LoadFile(info FileInfo) (Page, error) {
	v, err := lines.New(h.kind, info, lines.WithBucketSize(h.bucketSize))
	if err != nil {
		return Page{}, fmt.Errorf("load %s: %w", info.Name, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.active = v
	h.history.Clear()
	h.view = page.Request{FileName: info.Name, Count: h.initialWindow}

	h.logger.Debug("loaded %s: %d lines, %s store", info.Name, v.Len(), h.kind)
	return page.First(v, h.initialWindow), nil
}

// IsLoaded reports whether a file has been loaded.
func (h *Handler) IsLoaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active != nil
}

// activeLocked returns the active version or ErrNoFile.
func (h *Handler) activeLocked() (lines.Version, error) {
	if h.active == nil {
		return nil, ErrNoFile
	}
	return h.active, nil
}

// ============================================================================
// Windowed Reads
// ============================================================================

// PrevLines returns up to req.Count lines preceding req.StartingLine.
func (h *Handler) PrevLines(req PageRequest) (Page, error) {
	return h.read("prev", req, page.Before)
}

// NextLines returns up to req.Count lines following req.StartingLine.
func (h *Handler) NextLines(req PageRequest) (Page, error) {
	return h.read("next", req, page.After)
}

// LinesFrom returns up to req.Count lines starting at req.StartingLine,
// with the cursor moved to the start of that line.
func (h *Handler) LinesFrom(req PageRequest) (Page, error) {
	return h.read("from", req, page.From)
}

func (h *Handler) read(op string, req PageRequest, build func(lines.Version, page.Request) (page.Page, error)) (Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.activeLocked()
	if err != nil {
		return Page{}, err
	}
	p, err := build(v, req)
	if err != nil {
		h.logger.Warn("rejected %s request at line %d count %d", op, req.StartingLine, req.Count)
		return Page{}, err
	}
	return p, nil
}

// Search returns the position of every occurrence of req.Pattern in line
// order. Matches never span lines and may overlap.
func (h *Handler) Search(req SearchRequest) ([]Cursor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.activeLocked()
	if err != nil {
		return nil, err
	}
	found := v.Cursors(req.Pattern, h.algorithm)
	h.logger.Debug("search %q: %d matches", req.Pattern, len(found))
	return found, nil
}

// ============================================================================
// Edit Operations
// ============================================================================

// EditLines replaces lines [req.StartingLine, req.EndingLine) with req.Lines.
// A malformed request returns ErrInvalidRange and records nothing.
func (h *Handler) EditLines(req EditRequest) error {
	u, err := req.update()
	if err != nil {
		h.logger.Warn("rejected edit: %v", err)
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.applyLocked(u.Description(), u); err != nil {
		return err
	}
	h.view = page.Request{
		FileName:     req.FileName,
		StartingLine: req.StartingLine,
		Count:        max(req.EndingLine-req.StartingLine, len(req.Lines)),
		CursorAt:     req.Cursor,
	}
	return nil
}

// SearchReplace replaces every occurrence of req.Pattern on every line.
// An empty pattern is a no-op and records nothing.
func (h *Handler) SearchReplace(req SearchReplaceRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if req.Pattern == "" {
		if _, err := h.activeLocked(); err != nil {
			return err
		}
		return nil
	}
	sr := req.edit()
	return h.applyLocked(sr.Description(), sr)
}

// ApplyEdits applies edits in order as a single undoable step. Nothing is
// applied, and nothing recorded, if any edit is malformed.
func (h *Handler) ApplyEdits(edits ...Edit) error {
	if len(edits) == 0 {
		return nil
	}
	if err := lines.Validate(edits...); err != nil {
		h.logger.Warn("rejected batch: %v", err)
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	desc := edits[0].Description()
	if len(edits) > 1 {
		desc = fmt.Sprintf("Batch of %d edits", len(edits))
	}
	return h.applyLocked(desc, edits...)
}

// applyLocked snapshots the active version and then applies edits to it.
// Edits must already be validated.
func (h *Handler) applyLocked(desc string, edits ...Edit) error {
	v, err := h.activeLocked()
	if err != nil {
		return err
	}
	h.history.Record(v, desc)
	if err := v.Apply(edits...); err != nil {
		return err
	}
	h.logger.Debug("%s: %d lines, undo depth %d", desc, v.Len(), h.history.UndoCount())
	return nil
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo restores the version before the most recent edit. It reports false
// and changes nothing when there is nothing to undo.
func (h *Handler) Undo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil {
		return false
	}
	prev, ok := h.history.Undo(h.active)
	if !ok {
		return false
	}
	h.active = prev
	h.logger.Debug("undo: undo depth %d, redo depth %d", h.history.UndoCount(), h.history.RedoCount())
	return true
}

// Redo re-applies the most recently undone edit. It reports false and
// changes nothing when there is nothing to redo.
func (h *Handler) Redo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil {
		return false
	}
	next, ok := h.history.Redo(h.active)
	if !ok {
		return false
	}
	h.active = next
	h.logger.Debug("redo: undo depth %d, redo depth %d", h.history.UndoCount(), h.history.RedoCount())
	return true
}

// CanUndo returns true if undo is available.
func (h *Handler) CanUndo() bool {
	return h.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (h *Handler) CanRedo() bool {
	return h.history.CanRedo()
}

// UndoCount returns the number of undo steps available.
func (h *Handler) UndoCount() int {
	return h.history.UndoCount()
}

// RedoCount returns the number of redo steps available.
func (h *Handler) RedoCount() int {
	return h.history.RedoCount()
}

// UndoInfo describes the available undo steps, oldest first.
func (h *Handler) UndoInfo() []history.OperationInfo {
	return h.history.UndoInfo()
}

// RedoInfo describes the available redo steps, oldest first.
func (h *Handler) RedoInfo() []history.OperationInfo {
	return h.history.RedoInfo()
}

// CursorPage returns the window that was being edited at the most recent
// EditLines, read from the active version, with the cursor where the
// caller left it. Before any edit it returns the first page.
func (h *Handler) CursorPage() (Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.activeLocked()
	if err != nil {
		return Page{}, err
	}
	got, _, err := v.From(h.view.StartingLine, h.view.Count)
	if err != nil {
		return Page{}, err
	}
	return Page{
		FileName:     v.FileName(),
		StartingLine: h.view.StartingLine,
		Lines:        got,
		CursorAt:     h.view.CursorAt,
	}, nil
}

// ============================================================================
// Copy Buffer
// ============================================================================

// SetCopyBuffer replaces the copy buffer.
func (h *Handler) SetCopyBuffer(b clipboard.CopyBuffer) {
	h.clipboard.Set(b)
}

// CopyBuffer returns the last copied lines, or an empty buffer.
func (h *Handler) CopyBuffer() clipboard.CopyBuffer {
	return h.clipboard.Get()
}

// ============================================================================
// Accessors
// ============================================================================

// LatestVersion returns an independent copy of the active version of
// fileName. It reports false when no file is loaded or the name differs.
func (h *Handler) LatestVersion(fileName string) (lines.Version, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil || h.active.FileName() != fileName {
		return nil, false
	}
	return h.active.Clone(), true
}

// FileName returns the name of the loaded file.
func (h *Handler) FileName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return ""
	}
	return h.active.FileName()
}

// LineCount returns the number of lines in the active version.
func (h *Handler) LineCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return 0
	}
	return h.active.Len()
}

// AllLines returns every line of the active version.
// It is meant for writing the file back, not for paging.
func (h *Handler) AllLines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return []string{}
	}
	return h.active.AllLines()
}

// Revision returns the revision of the active version, or zero.
func (h *Handler) Revision() lines.RevisionID {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return 0
	}
	return h.active.Revision()
}

// Kind returns the configured line store.
func (h *Handler) Kind() lines.Kind {
	return h.kind
}

// Algorithm returns the configured search algorithm.
func (h *Handler) Algorithm() search.Algorithm {
	return h.algorithm
}
