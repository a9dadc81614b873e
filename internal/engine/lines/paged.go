package lines

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/dshills/sourcebuf/internal/engine/cursor"
	"github.com/dshills/sourcebuf/internal/engine/search"
)

// Bucket is a fixed-capacity group of consecutive lines in a PagedVersion.
// A bucket is never empty and never holds more than its version's capacity.
type Bucket struct {
	lines  []string
	shared atomic.Bool
}

// Len returns the number of lines in the bucket.
func (b *Bucket) Len() int {
	return len(b.lines)
}

// Lines returns a copy of the bucket's lines.
func (b *Bucket) Lines() []string {
	return window(b.lines)
}

// PagedVersion partitions the file into buckets of at most capacity lines.
// The concatenation of all buckets, in order, is the file.
//
// Buckets are shared copy-on-write between a version and its clones. Once a
// bucket is marked shared it is never written again; a version that needs to
// change it copies it first.
type PagedVersion struct {
	name     string
	capacity int
	buckets  []*Bucket
	starts   []int // starts[k] is the line number of the first line of buckets[k]
	size     int
	revision RevisionID
}

// NewPaged creates a paged version from info with the given bucket capacity.
// A non-positive capacity selects DefaultBucketSize.
func NewPaged(info FileInfo, capacity int) *PagedVersion {
	if capacity <= 0 {
		capacity = DefaultBucketSize
	}
	p := &PagedVersion{
		name:     info.Name,
		capacity: capacity,
		revision: NewRevisionID(),
	}
	p.buckets = p.chunk(info.Lines)
	p.reindex()
	return p
}

func (p *PagedVersion) Revision() RevisionID { return p.revision }
func (p *PagedVersion) Kind() Kind           { return Paged }
func (p *PagedVersion) FileName() string     { return p.name }
func (p *PagedVersion) Len() int             { return p.size }

// Capacity returns the maximum number of lines per bucket.
func (p *PagedVersion) Capacity() int {
	return p.capacity
}

// Buckets returns the buckets in file order.
// The returned buckets must not be modified.
func (p *PagedVersion) Buckets() []*Bucket {
	return slices.Clone(p.buckets)
}

// chunk splits src into new unshared buckets.
func (p *PagedVersion) chunk(src []string) []*Bucket {
	out := make([]*Bucket, 0, (len(src)+p.capacity-1)/p.capacity)
	for i := 0; i < len(src); i += p.capacity {
		end := min(i+p.capacity, len(src))
		out = append(out, &Bucket{lines: slices.Clone(src[i:end])})
	}
	return out
}

// reindex recomputes bucket start offsets and the line count.
func (p *PagedVersion) reindex() {
	starts := make([]int, len(p.buckets))
	n := 0
	for k, b := range p.buckets {
		starts[k] = n
		n += len(b.lines)
	}
	p.starts = starts
	p.size = n
}

// locate returns the bucket holding line and the line's offset inside it.
// line must be in [0, Len()).
func (p *PagedVersion) locate(line int) (int, int) {
	k, found := slices.BinarySearch(p.starts, line)
	if !found {
		k--
	}
	return k, line - p.starts[k]
}

// writable returns bucket k, copying it first if it is shared.
func (p *PagedVersion) writable(k int) *Bucket {
	b := p.buckets[k]
	if b.shared.Load() {
		b = &Bucket{lines: slices.Clone(b.lines)}
		p.buckets[k] = b
	}
	return b
}

// collect returns lines [start, end), touching only the buckets involved.
func (p *PagedVersion) collect(start, end int) []string {
	out := make([]string, 0, end-start)
	if start >= end {
		return out
	}
	k, off := p.locate(start)
	for len(out) < end-start {
		b := p.buckets[k]
		take := min(len(b.lines)-off, end-start-len(out))
		out = append(out, b.lines[off:off+take]...)
		k++
		off = 0
	}
	return out
}

func (p *PagedVersion) Line(n int) (string, bool) {
	if n < 0 || n >= p.size {
		return "", false
	}
	k, off := p.locate(n)
	return p.buckets[k].lines[off], true
}

func (p *PagedVersion) AllLines() []string {
	return p.collect(0, p.size)
}

func (p *PagedVersion) Before(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := beforeBounds(p.size, line, count)
	return p.collect(start, end), start, nil
}

func (p *PagedVersion) After(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := afterBounds(p.size, line, count)
	return p.collect(start, end), line, nil
}

func (p *PagedVersion) From(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := fromBounds(p.size, line, count)
	return p.collect(start, end), line, nil
}

// ApplyUpdate rebuilds the buckets overlapping the update range and leaves
// every other bucket in place. When the rebuilt region would end in a
// bucket less than half full, the following bucket is folded in so that
// repeated small edits do not fragment the file.
func (p *PagedVersion) ApplyUpdate(u UpdateLines) error {
	if err := u.validate(); err != nil {
		return err
	}
	start, end := updateBounds(p.size, u.StartingLine, u.Count)

	first, last := p.region(start, end)
	base := p.size
	if first < len(p.buckets) {
		base = p.starts[first]
	}

	var old []string
	for _, b := range p.buckets[first:last] {
		old = append(old, b.lines...)
	}

	merged := make([]string, 0, len(old)-(end-start)+len(u.Lines))
	merged = append(merged, old[:start-base]...)
	merged = append(merged, u.Lines...)
	merged = append(merged, old[end-base:]...)

	if rem := len(merged) % p.capacity; rem != 0 && rem < p.capacity/2 && last < len(p.buckets) {
		merged = append(merged, p.buckets[last].lines...)
		last++
	}

	p.buckets = slices.Replace(p.buckets, first, last, p.chunk(merged)...)
	p.reindex()
	p.revision = NewRevisionID()
	return nil
}

// region returns the half-open bucket range [first, last) covering the
// line range [start, end). Pure insertions use the bucket they land in,
// or the final bucket when appending.
func (p *PagedVersion) region(start, end int) (int, int) {
	n := len(p.buckets)
	if n == 0 {
		return 0, 0
	}
	if start >= p.size {
		return n - 1, n
	}
	first, _ := p.locate(start)
	if end <= start {
		return first, first + 1
	}
	last, _ := p.locate(end - 1)
	return first, last + 1
}

func (p *PagedVersion) ApplySearchReplace(sr SearchReplace) {
	if sr.Pattern == "" {
		return
	}
	changed := false
	for k := range p.buckets {
		for i, line := range p.buckets[k].lines {
			if strings.Contains(line, sr.Pattern) {
				p.writable(k).lines[i] = strings.ReplaceAll(line, sr.Pattern, sr.Replacement)
				changed = true
			}
		}
	}
	if changed {
		p.revision = NewRevisionID()
	}
}

func (p *PagedVersion) Apply(edits ...Edit) error {
	return applyAll(p, edits)
}

func (p *PagedVersion) Cursors(pattern string, alg search.Algorithm) []cursor.Cursor {
	if pattern == "" {
		return nil
	}
	m := search.NewMatcher(pattern, alg)
	var out []cursor.Cursor
	for k, b := range p.buckets {
		for i, line := range b.lines {
			out = appendCursors(out, m, p.starts[k]+i, line)
		}
	}
	return out
}

// Clone shares every bucket with the copy and marks them shared, so either
// side copies a bucket before its first write. The receiver's own fields are
// left untouched, so Clone may run alongside readers of p.
func (p *PagedVersion) Clone() Version {
	for _, b := range p.buckets {
		b.shared.Store(true)
	}
	return &PagedVersion{
		name:     p.name,
		capacity: p.capacity,
		buckets:  slices.Clone(p.buckets),
		starts:   slices.Clone(p.starts),
		size:     p.size,
		revision: NewRevisionID(),
	}
}
