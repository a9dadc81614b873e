package lines

import (
	"slices"
	"strings"

	"github.com/dshills/sourcebuf/internal/engine/cursor"
	"github.com/dshills/sourcebuf/internal/engine/search"
)

// ContiguousVersion stores every line in one slice.
type ContiguousVersion struct {
	name     string
	lines    []string
	revision RevisionID
}

// NewContiguous creates a contiguous version from info.
func NewContiguous(info FileInfo) *ContiguousVersion {
	return &ContiguousVersion{
		name:     info.Name,
		lines:    slices.Clone(info.Lines),
		revision: NewRevisionID(),
	}
}

func (c *ContiguousVersion) Revision() RevisionID { return c.revision }
func (c *ContiguousVersion) Kind() Kind           { return Contiguous }
func (c *ContiguousVersion) FileName() string     { return c.name }
func (c *ContiguousVersion) Len() int             { return len(c.lines) }

func (c *ContiguousVersion) Line(n int) (string, bool) {
	if n < 0 || n >= len(c.lines) {
		return "", false
	}
	return c.lines[n], true
}

func (c *ContiguousVersion) AllLines() []string {
	return window(c.lines)
}

func (c *ContiguousVersion) Before(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := beforeBounds(len(c.lines), line, count)
	return window(c.lines[start:end]), start, nil
}

func (c *ContiguousVersion) After(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := afterBounds(len(c.lines), line, count)
	return window(c.lines[start:end]), line, nil
}

func (c *ContiguousVersion) From(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := fromBounds(len(c.lines), line, count)
	return window(c.lines[start:end]), line, nil
}

func (c *ContiguousVersion) ApplyUpdate(u UpdateLines) error {
	if err := u.validate(); err != nil {
		return err
	}
	start, end := updateBounds(len(c.lines), u.StartingLine, u.Count)
	c.lines = slices.Replace(c.lines, start, end, u.Lines...)
	c.revision = NewRevisionID()
	return nil
}

func (c *ContiguousVersion) ApplySearchReplace(sr SearchReplace) {
	if sr.Pattern == "" {
		return
	}
	changed := false
	for i, line := range c.lines {
		if strings.Contains(line, sr.Pattern) {
			c.lines[i] = strings.ReplaceAll(line, sr.Pattern, sr.Replacement)
			changed = true
		}
	}
	if changed {
		c.revision = NewRevisionID()
	}
}

func (c *ContiguousVersion) Apply(edits ...Edit) error {
	return applyAll(c, edits)
}

func (c *ContiguousVersion) Cursors(pattern string, alg search.Algorithm) []cursor.Cursor {
	if pattern == "" {
		return nil
	}
	m := search.NewMatcher(pattern, alg)
	var out []cursor.Cursor
	for i, line := range c.lines {
		out = appendCursors(out, m, i, line)
	}
	return out
}

func (c *ContiguousVersion) Clone() Version {
	return &ContiguousVersion{
		name:     c.name,
		lines:    slices.Clone(c.lines),
		revision: NewRevisionID(),
	}
}
