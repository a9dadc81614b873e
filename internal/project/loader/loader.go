// Package loader reads source files into line form and writes them back.
//
// The loader is the only component that touches storage. It decodes the
// file's encoding, splits it into lines, and remembers the Format so that
// Save writes the file back with the same encoding and line endings.
package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dshills/sourcebuf/internal/engine/lines"
	"github.com/dshills/sourcebuf/internal/logging"
	"github.com/dshills/sourcebuf/internal/project/vfs"
)

// DefaultMaxFileSize is the largest file Load accepts.
const DefaultMaxFileSize int64 = 256 << 20

// Loader reads and writes files through a VFS.
type Loader struct {
	fs          vfs.VFS
	maxFileSize int64
	logger      *logging.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxFileSize limits the size of files Load accepts.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxFileSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader over fsys.
func New(fsys vfs.VFS, opts ...Option) *Loader {
	l := &Loader{
		fs:          fsys,
		maxFileSize: DefaultMaxFileSize,
		logger:      logging.Null(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("loader")
	return l
}

// Abs resolves p against the loader's file system.
func (l *Loader) Abs(p string) (string, error) {
	return l.fs.Abs(p)
}

// Result is a loaded file.
type Result struct {
	Info   lines.FileInfo
	Format Format
	Size   int64
}

// Load reads the file at p. The FileInfo is named by the absolute path.
func (l *Loader) Load(p string) (Result, error) {
	abs, err := l.fs.Abs(p)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", p, err)
	}
	st, err := l.fs.Stat(abs)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", p, err)
	}
	if st.IsDir() {
		return Result{}, fmt.Errorf("load %s: is a directory", p)
	}
	if st.Size() > l.maxFileSize {
		return Result{}, fmt.Errorf("load %s: %d bytes exceeds limit of %d", p, st.Size(), l.maxFileSize)
	}

	raw, err := l.fs.ReadFile(abs)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", p, err)
	}
	if IsBinary(raw) {
		return Result{}, fmt.Errorf("load %s: %w", p, ErrBinaryFile)
	}
	text, enc, err := Decode(raw)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: decode %s: %w", p, enc, err)
	}

	split, trailing := SplitLines(text)
	format := Format{
		Encoding:        enc,
		LineEnding:      DetectLineEnding(text),
		TrailingNewline: trailing,
	}
	l.logger.Debug("loaded %s: %d lines, %s, %s", abs, len(split), enc, format.LineEnding)

	return Result{
		Info:   lines.NewFileInfo(abs, split),
		Format: format,
		Size:   int64(len(raw)),
	}, nil
}

// Save writes content to p in the given format. The file is written to a
// temporary sibling first and renamed over p, so a failed write never
// leaves p truncated.
func (l *Loader) Save(p string, content []string, format Format) error {
	abs, err := l.fs.Abs(p)
	if err != nil {
		return fmt.Errorf("save %s: %w", p, err)
	}
	data, err := Encode(JoinLines(content, format.LineEnding, format.TrailingNewline), format.Encoding)
	if err != nil {
		return fmt.Errorf("save %s: encode %s: %w", p, format.Encoding, err)
	}

	perm := fs.FileMode(0644)
	if st, err := l.fs.Stat(abs); err == nil {
		perm = st.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(abs), "."+filepath.Base(abs)+".sourcebuf-tmp")
	if err := l.fs.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("save %s: %w", p, err)
	}
	if err := l.fs.Rename(tmp, abs); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("save %s: %w", p, err)
	}
	l.logger.Debug("saved %s: %d lines, %d bytes", abs, len(content), len(data))
	return nil
}
