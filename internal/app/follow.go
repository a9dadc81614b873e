package app

import (
	"context"

	"github.com/dshills/sourcebuf/internal/project/watcher"
)

// Follow watches every open document with wt and reloads a document when
// its file changes on disk. Documents opened while Follow runs are watched
// too. A change is skipped when the document has unsaved edits, or when the
// disk content is what the workspace last read or wrote.
//
// Follow returns when ctx is done or wt is closed.
func (w *Workspace) Follow(ctx context.Context, wt *watcher.Watcher) error {
	w.mu.Lock()
	w.watch = wt
	for _, p := range w.order {
		if err := wt.Add(p); err != nil {
			w.logger.Warn("watch %s: %v", p, err)
		}
	}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.watch = nil
		w.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-wt.Events():
			if !ok {
				return nil
			}
			w.handleChange(ev)

		case err, ok := <-wt.Errors():
			if !ok {
				return nil
			}
			w.logger.Warn("watcher: %v", err)
		}
	}
}

// handleChange applies one debounced file event.
func (w *Workspace) handleChange(ev watcher.Event) {
	doc, err := w.Get(ev.Path)
	if err != nil {
		return
	}
	if ev.Removed() {
		w.logger.Warn("%s was removed on disk", doc.Path)
		return
	}
	if doc.IsModified() {
		w.logger.Warn("%s changed on disk; keeping unsaved edits", doc.Path)
		return
	}

	res, err := w.loader.Load(doc.Path)
	if err != nil {
		w.logger.Warn("reload %s: %v", doc.Path, err)
		return
	}
	if doc.matchesDisk(res.Info.Lines) {
		return
	}
	if _, err := doc.Handler.LoadFile(res.Info); err != nil {
		w.logger.Warn("reload %s: %v", doc.Path, err)
		return
	}
	doc.markSynced(res.Format, res.Info.Lines)
	w.logger.Info("reloaded %s after %s", doc.Path, ev.Op)
}
