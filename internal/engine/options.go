package engine

import (
	"github.com/dshills/sourcebuf/internal/engine/clipboard"
	"github.com/dshills/sourcebuf/internal/engine/history"
	"github.com/dshills/sourcebuf/internal/engine/lines"
	"github.com/dshills/sourcebuf/internal/engine/page"
	"github.com/dshills/sourcebuf/internal/engine/search"
	"github.com/dshills/sourcebuf/internal/logging"
)

// Default configuration values.
const (
	DefaultKind          = lines.Contiguous
	DefaultBucketSize    = lines.DefaultBucketSize
	DefaultInitialWindow = page.DefaultWindow
)

// Option configures a Handler during creation.
type Option func(*Handler)

// WithKind selects the line store used for loaded files.
func WithKind(kind lines.Kind) Option {
	return func(h *Handler) {
		h.kind = kind
	}
}

// WithBucketSize sets the bucket capacity of the paged store.
func WithBucketSize(size int) Option {
	return func(h *Handler) {
		if size > 0 {
			h.bucketSize = size
		}
	}
}

// WithInitialWindow sets the number of lines returned by LoadFile.
func WithInitialWindow(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.initialWindow = n
		}
	}
}

// WithMaxUndoEntries bounds the undo and redo stacks. Zero means unbounded.
func WithMaxUndoEntries(n int) Option {
	return func(h *Handler) {
		h.maxUndoEntries = max(n, 0)
	}
}

// WithRedoPolicy decides whether a new edit discards the redo stack.
func WithRedoPolicy(p history.RedoPolicy) Option {
	return func(h *Handler) {
		h.redoPolicy = p
	}
}

// WithSearchAlgorithm selects the algorithm used by Search.
func WithSearchAlgorithm(alg search.Algorithm) Option {
	return func(h *Handler) {
		h.algorithm = alg
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClipboard shares a copy buffer holder between handlers.
func WithClipboard(c *clipboard.Holder) Option {
	return func(h *Handler) {
		if c != nil {
			h.clipboard = c
		}
	}
}
