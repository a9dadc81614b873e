package app

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/engine/clipboard"
	"github.com/dshills/sourcebuf/internal/logging"
	"github.com/dshills/sourcebuf/internal/project/loader"
	"github.com/dshills/sourcebuf/internal/project/vfs"
	"github.com/dshills/sourcebuf/internal/project/watcher"
)

// Workspace routes requests to one handler per open file. Requests name
// their file with FileName; relative names are resolved the same way Open
// resolves paths.
type Workspace struct {
	mu sync.RWMutex

	loader      *loader.Loader
	handlerOpts []engine.Option
	clipboard   *clipboard.Holder
	logger      *logging.Logger

	docs  map[string]*Document
	order []string

	// watch receives Add/Remove calls while Follow is running.
	watch *watcher.Watcher

	closed bool
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLoader sets the loader used to read and write files.
func WithLoader(l *loader.Loader) Option {
	return func(w *Workspace) {
		if l != nil {
			w.loader = l
		}
	}
}

// WithHandlerOptions sets the options every new handler is built with.
func WithHandlerOptions(opts ...engine.Option) Option {
	return func(w *Workspace) {
		w.handlerOpts = append(w.handlerOpts, opts...)
	}
}

// WithLogger sets the workspace logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorkspace creates an empty workspace. Files are read from the OS
// file system unless WithLoader is given.
func NewWorkspace(opts ...Option) *Workspace {
	w := &Workspace{
		clipboard: &clipboard.Holder{},
		logger:    logging.Null(),
		docs:      make(map[string]*Document),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.loader == nil {
		w.loader = loader.New(vfs.NewOSFS(), loader.WithLogger(w.logger))
	}
	w.logger = w.logger.WithComponent("workspace")
	return w
}

// Clipboard returns the copy buffer shared by every document.
func (w *Workspace) Clipboard() *clipboard.Holder {
	return w.clipboard
}

// ============================================================================
// Documents
// ============================================================================

// Open loads the file at path into a new handler and returns its first page.
func (w *Workspace) Open(path string) (engine.Page, error) {
	abs, err := w.loader.Abs(path)
	if err != nil {
		return engine.Page{}, NewOperationError("open", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return engine.Page{}, NewOperationError("open", abs, ErrWorkspaceClosed)
	}
	if _, ok := w.docs[abs]; ok {
		return engine.Page{}, NewOperationError("open", abs, ErrDocumentAlreadyOpen)
	}

	res, err := w.loader.Load(abs)
	if err != nil {
		return engine.Page{}, NewOperationError("open", abs, err)
	}

	opts := append(slices.Clone(w.handlerOpts),
		engine.WithClipboard(w.clipboard),
		engine.WithLogger(w.logger),
	)
	h := engine.New(opts...)
	pg, err := h.LoadFile(res.Info)
	if err != nil {
		return engine.Page{}, NewOperationError("open", abs, err)
	}

	doc := newDocument(abs, h)
	doc.markSynced(res.Format, res.Info.Lines)
	w.docs[abs] = doc
	w.order = append(w.order, abs)

	if w.watch != nil {
		if err := w.watch.Add(abs); err != nil {
			w.logger.Warn("watch %s: %v", abs, err)
		}
	}

	w.logger.Info("opened %s (%d lines)", abs, res.Info.Len())
	return pg, nil
}

// Close discards the document. Unsaved changes are rejected unless force
// is set.
func (w *Workspace) Close(name string, force bool) error {
	doc, err := w.Get(name)
	if err != nil {
		return NewOperationError("close", name, err)
	}
	if !force && doc.IsModified() {
		return NewOperationError("close", doc.Path, ErrUnsavedChanges)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.docs, doc.Path)
	if i := slices.Index(w.order, doc.Path); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
	if w.watch != nil {
		_ = w.watch.Remove(doc.Path)
	}

	w.logger.Info("closed %s", doc.Path)
	return nil
}

// Get returns the open document named name.
func (w *Workspace) Get(name string) (*Document, error) {
	abs, err := w.loader.Abs(name)
	if err != nil {
		return nil, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[abs]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Names returns the open file names in the order they were opened.
func (w *Workspace) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.order)
}

// Len returns the number of open documents.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.docs)
}

// Save writes the document back in the format it was read with.
func (w *Workspace) Save(name string) error {
	doc, err := w.Get(name)
	if err != nil {
		return NewOperationError("save", name, err)
	}

	content := doc.Handler.AllLines()
	format := doc.Format()
	if err := w.loader.Save(doc.Path, content, format); err != nil {
		return NewOperationError("save", doc.Path, err)
	}
	doc.markSynced(format, content)

	w.logger.Info("saved %s", doc.Path)
	return nil
}

// SaveAs writes the document to path without changing which file it is
// bound to.
func (w *Workspace) SaveAs(name, path string) error {
	doc, err := w.Get(name)
	if err != nil {
		return NewOperationError("save", name, err)
	}
	if err := w.loader.Save(path, doc.Handler.AllLines(), doc.Format()); err != nil {
		return NewOperationError("save", path, err)
	}
	return nil
}

// Reload re-reads the document from disk, discarding its history.
func (w *Workspace) Reload(name string) (engine.Page, error) {
	doc, err := w.Get(name)
	if err != nil {
		return engine.Page{}, NewOperationError("reload", name, err)
	}
	res, err := w.loader.Load(doc.Path)
	if err != nil {
		return engine.Page{}, NewOperationError("reload", doc.Path, err)
	}
	pg, err := doc.Handler.LoadFile(res.Info)
	if err != nil {
		return engine.Page{}, NewOperationError("reload", doc.Path, err)
	}
	doc.markSynced(res.Format, res.Info.Lines)

	w.logger.Info("reloaded %s (%d lines)", doc.Path, res.Info.Len())
	return pg, nil
}

// CloseAll closes every document regardless of unsaved changes. The
// workspace rejects Open afterwards.
func (w *Workspace) CloseAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.order {
		if w.watch != nil {
			_ = w.watch.Remove(p)
		}
	}
	clear(w.docs)
	w.order = nil
	w.closed = true
}

// ============================================================================
// Routed operations
// ============================================================================

func (w *Workspace) handler(op, name string) (*engine.Handler, error) {
	doc, err := w.Get(name)
	if err != nil {
		return nil, NewOperationError(op, name, err)
	}
	return doc.Handler, nil
}

// PrevLines routes to the handler for req.FileName.
func (w *Workspace) PrevLines(req engine.PageRequest) (engine.Page, error) {
	h, err := w.handler("prev lines", req.FileName)
	if err != nil {
		return engine.Page{}, err
	}
	return h.PrevLines(req)
}

// NextLines routes to the handler for req.FileName.
func (w *Workspace) NextLines(req engine.PageRequest) (engine.Page, error) {
	h, err := w.handler("next lines", req.FileName)
	if err != nil {
		return engine.Page{}, err
	}
	return h.NextLines(req)
}

// LinesFrom routes to the handler for req.FileName.
func (w *Workspace) LinesFrom(req engine.PageRequest) (engine.Page, error) {
	h, err := w.handler("lines from", req.FileName)
	if err != nil {
		return engine.Page{}, err
	}
	return h.LinesFrom(req)
}

// Search routes to the handler for req.FileName.
func (w *Workspace) Search(req engine.SearchRequest) ([]engine.Cursor, error) {
	h, err := w.handler("search", req.FileName)
	if err != nil {
		return nil, err
	}
	return h.Search(req)
}

// EditLines routes to the handler for req.FileName.
func (w *Workspace) EditLines(req engine.EditRequest) error {
	h, err := w.handler("edit", req.FileName)
	if err != nil {
		return err
	}
	return h.EditLines(req)
}

// SearchReplace routes to the handler for req.FileName.
func (w *Workspace) SearchReplace(req engine.SearchReplaceRequest) error {
	h, err := w.handler("replace", req.FileName)
	if err != nil {
		return err
	}
	return h.SearchReplace(req)
}

// Undo reverts the last edit of the named file.
func (w *Workspace) Undo(name string) (bool, error) {
	h, err := w.handler("undo", name)
	if err != nil {
		return false, err
	}
	return h.Undo(), nil
}

// Redo re-applies the last undone edit of the named file.
func (w *Workspace) Redo(name string) (bool, error) {
	h, err := w.handler("redo", name)
	if err != nil {
		return false, err
	}
	return h.Redo(), nil
}

// Modified returns the names of documents with unsaved changes.
func (w *Workspace) Modified() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var names []string
	for _, p := range w.order {
		if w.docs[p].IsModified() {
			names = append(names, p)
		}
	}
	return names
}

// String implements fmt.Stringer.
func (w *Workspace) String() string {
	return fmt.Sprintf("Workspace{%d documents}", w.Len())
}
