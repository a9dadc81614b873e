package lines

import (
	"strings"

	"github.com/dshills/sourcebuf/internal/engine/cursor"
	"github.com/dshills/sourcebuf/internal/engine/search"
)

// lineNode holds one line of a LinkedVersion.
type lineNode struct {
	text       string
	prev, next *lineNode
}

// LinkedVersion stores each line in a node of a circular doubly linked list.
// The root node is a sentinel: root.next is line 0, root.prev the last line.
type LinkedVersion struct {
	name     string
	root     lineNode
	size     int
	revision RevisionID
}

// NewLinked creates a linked version from info.
func NewLinked(info FileInfo) *LinkedVersion {
	l := &LinkedVersion{name: info.Name, revision: NewRevisionID()}
	l.root.next = &l.root
	l.root.prev = &l.root
	for _, text := range info.Lines {
		l.insertBefore(&l.root, text)
	}
	return l
}

func (l *LinkedVersion) Revision() RevisionID { return l.revision }
func (l *LinkedVersion) Kind() Kind           { return Linked }
func (l *LinkedVersion) FileName() string     { return l.name }
func (l *LinkedVersion) Len() int             { return l.size }

// nodeAt returns the node at index i, or the sentinel when i >= size.
// It walks from whichever end is closer.
func (l *LinkedVersion) nodeAt(i int) *lineNode {
	if i >= l.size {
		return &l.root
	}
	if i < l.size/2 {
		n := l.root.next
		for k := 0; k < i; k++ {
			n = n.next
		}
		return n
	}
	n := l.root.prev
	for k := l.size - 1; k > i; k-- {
		n = n.prev
	}
	return n
}

func (l *LinkedVersion) insertBefore(at *lineNode, text string) {
	n := &lineNode{text: text, prev: at.prev, next: at}
	at.prev.next = n
	at.prev = n
	l.size++
}

func (l *LinkedVersion) remove(n *lineNode) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	l.size--
}

// collect returns lines [start, end).
func (l *LinkedVersion) collect(start, end int) []string {
	out := make([]string, 0, end-start)
	n := l.nodeAt(start)
	for k := start; k < end; k++ {
		out = append(out, n.text)
		n = n.next
	}
	return out
}

func (l *LinkedVersion) Line(n int) (string, bool) {
	if n < 0 || n >= l.size {
		return "", false
	}
	return l.nodeAt(n).text, true
}

func (l *LinkedVersion) AllLines() []string {
	return l.collect(0, l.size)
}

func (l *LinkedVersion) Before(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := beforeBounds(l.size, line, count)
	return l.collect(start, end), start, nil
}

func (l *LinkedVersion) After(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := afterBounds(l.size, line, count)
	return l.collect(start, end), line, nil
}

func (l *LinkedVersion) From(line, count int) ([]string, int, error) {
	if err := checkWindow(line, count); err != nil {
		return nil, 0, err
	}
	start, end := fromBounds(l.size, line, count)
	return l.collect(start, end), line, nil
}

func (l *LinkedVersion) ApplyUpdate(u UpdateLines) error {
	if err := u.validate(); err != nil {
		return err
	}
	start, end := updateBounds(l.size, u.StartingLine, u.Count)

	n := l.nodeAt(start)
	for k := start; k < end; k++ {
		next := n.next
		l.remove(n)
		n = next
	}
	for _, text := range u.Lines {
		l.insertBefore(n, text)
	}
	l.revision = NewRevisionID()
	return nil
}

func (l *LinkedVersion) ApplySearchReplace(sr SearchReplace) {
	if sr.Pattern == "" {
		return
	}
	changed := false
	for n := l.root.next; n != &l.root; n = n.next {
		if strings.Contains(n.text, sr.Pattern) {
			n.text = strings.ReplaceAll(n.text, sr.Pattern, sr.Replacement)
			changed = true
		}
	}
	if changed {
		l.revision = NewRevisionID()
	}
}

func (l *LinkedVersion) Apply(edits ...Edit) error {
	return applyAll(l, edits)
}

func (l *LinkedVersion) Cursors(pattern string, alg search.Algorithm) []cursor.Cursor {
	if pattern == "" {
		return nil
	}
	m := search.NewMatcher(pattern, alg)
	var out []cursor.Cursor
	i := 0
	for n := l.root.next; n != &l.root; n = n.next {
		out = appendCursors(out, m, i, n.text)
		i++
	}
	return out
}

func (l *LinkedVersion) Clone() Version {
	return NewLinked(FileInfo{Name: l.name, Lines: l.AllLines()})
}
