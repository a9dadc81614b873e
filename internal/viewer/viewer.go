package viewer

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/logging"
)

// Mode is the input mode of the viewer.
type Mode int

const (
	// ModeNormal interprets keys as commands.
	ModeNormal Mode = iota
	// ModeSearch collects a search pattern.
	ModeSearch
)

// Viewer pages through the file held by a handler.
type Viewer struct {
	h      *engine.Handler
	logger *logging.Logger

	scrollLines int
	tabWidth    int

	width, height int
	page          engine.Page

	mode    Mode
	query   []rune
	pattern string
	matches []engine.Cursor
	match   int

	message string
	done    bool
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithScrollLines sets how many lines j/k and the arrow keys move.
func WithScrollLines(n int) Option {
	return func(v *Viewer) {
		if n > 0 {
			v.scrollLines = n
		}
	}
}

// WithTabWidth sets the tab stop width.
func WithTabWidth(n int) Option {
	return func(v *Viewer) {
		if n > 0 {
			v.tabWidth = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a viewer over h. h must have a file loaded. The first page
// is read on the first Resize.
func New(h *engine.Handler, opts ...Option) *Viewer {
	v := &Viewer{
		h:           h,
		logger:      logging.Null(),
		scrollLines: 1,
		tabWidth:    4,
		match:       -1,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.WithComponent("viewer")
	return v
}

// Page returns the page on screen.
func (v *Viewer) Page() engine.Page { return v.page }

// Top returns the first line on screen.
func (v *Viewer) Top() int { return v.page.StartingLine }

// Mode returns the input mode.
func (v *Viewer) Mode() Mode { return v.mode }

// Message returns the status message.
func (v *Viewer) Message() string { return v.message }

// Done reports whether the user asked to quit.
func (v *Viewer) Done() bool { return v.done }

// Matches returns the current search results.
func (v *Viewer) Matches() []engine.Cursor { return v.matches }

// bodyHeight is the number of text rows; the last row is the status line.
func (v *Viewer) bodyHeight() int {
	return max(1, v.height-1)
}

// Resize sets the screen size and re-reads the page at the current top.
func (v *Viewer) Resize(width, height int) {
	v.width, v.height = width, height
	v.load(v.page.StartingLine)
}

// load shows the window starting at line start.
func (v *Viewer) load(start int) {
	pg, err := v.h.LinesFrom(engine.PageRequest{
		FileName:     v.h.FileName(),
		StartingLine: max(0, start),
		Count:        v.bodyHeight(),
	})
	if err != nil {
		v.fail(err)
		return
	}
	v.page = pg
}

func (v *Viewer) fail(err error) {
	v.message = err.Error()
	v.logger.Warn("%v", err)
}

// lastTop is the top line that shows the end of the file on a full page.
func (v *Viewer) lastTop() int {
	return max(0, v.h.LineCount()-v.bodyHeight())
}

// ScrollDown moves the window n lines toward the end of the file.
func (v *Viewer) ScrollDown(n int) {
	v.message = ""
	top := v.page.StartingLine
	if top >= v.lastTop() {
		v.message = "end of file"
		return
	}
	v.load(min(top+n, v.lastTop()))
}

// ScrollUp moves the window n lines toward the start of the file.
func (v *Viewer) ScrollUp(n int) {
	v.message = ""
	if v.page.StartingLine == 0 {
		v.message = "top of file"
		return
	}
	v.load(v.page.StartingLine - n)
}

// PageDown shows the lines following the current page.
func (v *Viewer) PageDown() {
	v.message = ""
	if v.page.IsEmpty() {
		v.message = "end of file"
		return
	}
	pg, err := v.h.NextLines(engine.PageRequest{
		FileName:     v.h.FileName(),
		StartingLine: v.page.EndLine() - 1,
		Count:        v.bodyHeight(),
		CursorAt:     v.page.CursorAt,
	})
	if err != nil {
		v.fail(err)
		return
	}
	if pg.IsEmpty() {
		v.message = "end of file"
		return
	}
	v.page = pg
}

// PageUp shows the lines preceding the current page. A short result at
// the start of the file is refilled to a full page.
func (v *Viewer) PageUp() {
	v.message = ""
	if v.page.StartingLine == 0 {
		v.message = "top of file"
		return
	}
	pg, err := v.h.PrevLines(engine.PageRequest{
		FileName:     v.h.FileName(),
		StartingLine: v.page.StartingLine,
		Count:        v.bodyHeight(),
		CursorAt:     v.page.CursorAt,
	})
	if err != nil {
		v.fail(err)
		return
	}
	if pg.Len() < v.bodyHeight() {
		v.load(0)
		return
	}
	v.page = pg
}

// GoTop jumps to the first line.
func (v *Viewer) GoTop() {
	v.message = ""
	v.load(0)
}

// GoBottom jumps to the last full page.
func (v *Viewer) GoBottom() {
	v.message = ""
	v.load(v.lastTop())
}

// GoLine jumps so that line is the first line on screen.
func (v *Viewer) GoLine(line int) {
	v.message = ""
	v.load(min(line, v.lastTop()))
}

// Search finds every occurrence of pattern and jumps to the first match at
// or below the top of the screen, wrapping to the first match.
func (v *Viewer) Search(pattern string) {
	v.pattern = pattern
	v.matches = nil
	v.match = -1
	if pattern == "" {
		v.message = ""
		return
	}

	found, err := v.h.Search(engine.SearchRequest{Pattern: pattern, FileName: v.h.FileName()})
	if err != nil {
		v.fail(err)
		return
	}
	if len(found) == 0 {
		v.message = "pattern not found: " + pattern
		return
	}
	v.matches = found
	v.match = 0
	for i, c := range found {
		if c.Line >= v.page.StartingLine {
			v.match = i
			break
		}
	}
	v.showMatch()
}

// NextMatch moves to the following match, wrapping at the end.
func (v *Viewer) NextMatch() {
	if len(v.matches) == 0 {
		v.message = "no search results"
		return
	}
	v.match = (v.match + 1) % len(v.matches)
	v.showMatch()
}

// PrevMatch moves to the preceding match, wrapping at the start.
func (v *Viewer) PrevMatch() {
	if len(v.matches) == 0 {
		v.message = "no search results"
		return
	}
	v.match = (v.match - 1 + len(v.matches)) % len(v.matches)
	v.showMatch()
}

// showMatch scrolls the current match into view.
func (v *Viewer) showMatch() {
	c := v.matches[v.match]
	if c.Line < v.page.StartingLine || c.Line >= v.page.StartingLine+v.bodyHeight() {
		v.load(min(c.Line, v.lastTop()))
	}
	v.message = fmt.Sprintf("match %d of %d", v.match+1, len(v.matches))
}

// Undo reverts the last edit and redraws the same window.
func (v *Viewer) Undo() {
	if !v.h.Undo() {
		v.message = "nothing to undo"
		return
	}
	v.refresh("undone")
}

// Redo re-applies the last undone edit.
func (v *Viewer) Redo() {
	if !v.h.Redo() {
		v.message = "nothing to redo"
		return
	}
	v.refresh("redone")
}

// refresh re-reads the window and search results after the content changed.
func (v *Viewer) refresh(msg string) {
	v.load(min(v.page.StartingLine, v.lastTop()))
	if v.pattern != "" {
		found, err := v.h.Search(engine.SearchRequest{Pattern: v.pattern, FileName: v.h.FileName()})
		if err == nil {
			v.matches = found
			v.match = min(v.match, len(found)-1)
		}
	}
	v.message = msg
}

// HandleKey applies one key press.
func (v *Viewer) HandleKey(ev *tcell.EventKey) {
	if v.mode == ModeSearch {
		v.handleSearchKey(ev)
		return
	}

	switch ev.Key() {
	case tcell.KeyDown, tcell.KeyEnter:
		v.ScrollDown(v.scrollLines)
	case tcell.KeyUp:
		v.ScrollUp(v.scrollLines)
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		v.PageDown()
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		v.PageUp()
	case tcell.KeyHome:
		v.GoTop()
	case tcell.KeyEnd:
		v.GoBottom()
	case tcell.KeyCtrlR:
		v.Redo()
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.done = true
	case tcell.KeyRune:
		v.handleRune(ev.Rune())
	}
}

func (v *Viewer) handleRune(r rune) {
	switch r {
	case 'j':
		v.ScrollDown(v.scrollLines)
	case 'k':
		v.ScrollUp(v.scrollLines)
	case ' ', 'f':
		v.PageDown()
	case 'b':
		v.PageUp()
	case 'g':
		v.GoTop()
	case 'G':
		v.GoBottom()
	case '/':
		v.mode = ModeSearch
		v.query = v.query[:0]
		v.message = ""
	case 'n':
		v.NextMatch()
	case 'N':
		v.PrevMatch()
	case 'u':
		v.Undo()
	case 'q':
		v.done = true
	}
}

func (v *Viewer) handleSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		v.mode = ModeNormal
		v.Search(string(v.query))
	case tcell.KeyEscape:
		v.mode = ModeNormal
		v.query = v.query[:0]
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(v.query); n > 0 {
			v.query = v.query[:n-1]
		}
	case tcell.KeyRune:
		v.query = append(v.query, ev.Rune())
	}
}

// Draw renders the page and the status line.
func (v *Viewer) Draw(s Screen) {
	s.Clear()
	width, _ := s.Size()

	gutter := len(strconv.Itoa(max(1, v.h.LineCount()))) + 1
	for row, line := range v.page.Lines {
		n := v.page.StartingLine + row
		drawText(s, 0, 0, row, gutter, fmt.Sprintf("%*d ", gutter-1, n+1), styleGutter, v.tabWidth)
		v.drawLine(s, gutter, row, width, n, line)
	}
	v.drawStatus(s, width)
	s.Show()
}

// drawLine draws one text line, highlighting search matches on it.
func (v *Viewer) drawLine(s Screen, x0, y, maxX, lineNo int, line string) {
	if len(v.pattern) == 0 || len(v.matches) == 0 {
		drawText(s, x0, x0, y, maxX, line, styleText, v.tabWidth)
		return
	}

	x := x0
	pos := 0
	for _, c := range v.matches {
		if c.Line != lineNo {
			continue
		}
		start := byteOffset(line, c.Column)
		if start < pos {
			continue
		}
		x = drawText(s, x0, x, y, maxX, line[pos:start], styleText, v.tabWidth)
		end := min(start+len(v.pattern), len(line))
		x = drawText(s, x0, x, y, maxX, line[start:end], styleMatch, v.tabWidth)
		pos = end
	}
	drawText(s, x0, x, y, maxX, line[pos:], styleText, v.tabWidth)
}

func (v *Viewer) drawStatus(s Screen, width int) {
	y := v.bodyHeight()
	for x := range width {
		s.SetContent(x, y, ' ', nil, styleStatus)
	}

	var text string
	if v.mode == ModeSearch {
		text = "/" + string(v.query)
	} else {
		text = fmt.Sprintf(" %s  %d-%d/%d", v.h.FileName(), v.page.StartingLine+1, v.page.EndLine(), v.h.LineCount())
		if v.message != "" {
			text += "  " + v.message
		}
	}
	drawText(s, 0, 0, y, width, text, styleStatus, v.tabWidth)
}

// CursorColumn returns the display column of the current match, or -1.
func (v *Viewer) CursorColumn() int {
	if v.match < 0 || v.match >= len(v.matches) {
		return -1
	}
	c := v.matches[v.match]
	row := c.Line - v.page.StartingLine
	if row < 0 || row >= v.page.Len() {
		return -1
	}
	return columnOf(v.page.Lines[row], c.Column, v.tabWidth)
}
