package app

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/engine/lines"
	"github.com/dshills/sourcebuf/internal/project/loader"
)

// Document is an open file and the handler that owns its versions.
type Document struct {
	// ID uniquely identifies this open instance of the file.
	ID string

	// Path is the absolute file path. It is also the handler's file name.
	Path string

	// Name is the display name.
	Name string

	// Handler owns the file's active version and history.
	Handler *engine.Handler

	mu        sync.Mutex
	format    loader.Format
	savedRev  lines.RevisionID
	diskLines []string
}

func newDocument(path string, h *engine.Handler) *Document {
	return &Document{
		ID:      uuid.NewString(),
		Path:    path,
		Name:    filepath.Base(path),
		Handler: h,
	}
}

// Format returns the on-disk format the document is saved with.
func (d *Document) Format() loader.Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format
}

// SetFormat changes the format used by the next save.
func (d *Document) SetFormat(f loader.Format) {
	d.mu.Lock()
	d.format = f
	d.mu.Unlock()
}

// IsModified reports whether the content differs from what was last loaded
// or saved. Undoing back to the saved content makes the document clean again.
func (d *Document) IsModified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	rev := d.Handler.Revision()
	if rev == d.savedRev {
		return false
	}
	if !slices.Equal(d.Handler.AllLines(), d.diskLines) {
		return true
	}
	d.savedRev = rev
	return false
}

// markSynced records the handler's current content as matching disk.
func (d *Document) markSynced(format loader.Format, content []string) {
	d.mu.Lock()
	d.format = format
	d.savedRev = d.Handler.Revision()
	d.diskLines = content
	d.mu.Unlock()
}

// matchesDisk reports whether content equals what was last read or written.
func (d *Document) matchesDisk(content []string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Equal(content, d.diskLines)
}
