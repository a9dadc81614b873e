package viewer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/engine/lines"
)

// fakeScreen records drawn cells.
type fakeScreen struct {
	width, height int
	cells         map[[2]int]rune
	styles        map[[2]int]tcell.Style
	shows         int
}

func newFakeScreen(w, h int) *fakeScreen {
	s := &fakeScreen{width: w, height: h}
	s.Clear()
	return s
}

func (s *fakeScreen) Size() (int, int) { return s.width, s.height }

func (s *fakeScreen) SetContent(x, y int, r rune, _ []rune, style tcell.Style) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[[2]int{x, y}] = r
	s.styles[[2]int{x, y}] = style
}

func (s *fakeScreen) Clear() {
	s.cells = make(map[[2]int]rune)
	s.styles = make(map[[2]int]tcell.Style)
}

func (s *fakeScreen) Show() { s.shows++ }

func (s *fakeScreen) row(y int) string {
	var b strings.Builder
	for x := range s.width {
		r, ok := s.cells[[2]int{x, y}]
		if !ok {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func numberedLines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %02d", i)
	}
	return out
}

// newTestViewer loads content and sizes the viewer to show body lines.
func newTestViewer(t *testing.T, content []string, body int) (*Viewer, *engine.Handler) {
	t.Helper()
	h := engine.New()
	if _, err := h.LoadFile(lines.NewFileInfo("view.txt", content)); err != nil {
		t.Fatal(err)
	}
	v := New(h)
	v.Resize(40, body+1)
	return v, h
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestResizeLoadsWindow(t *testing.T) {
	v, _ := newTestViewer(t, numberedLines(10), 3)
	pg := v.Page()
	if pg.StartingLine != 0 || pg.Len() != 3 || pg.Lines[0] != "line 00" {
		t.Errorf("page = %+v", pg)
	}
	v.Resize(40, 6)
	if v.Page().Len() != 5 {
		t.Errorf("after resize page has %d lines, want 5", v.Page().Len())
	}
}

func TestScroll(t *testing.T) {
	v, _ := newTestViewer(t, numberedLines(5), 3)

	v.ScrollUp(1)
	if v.Message() != "top of file" {
		t.Errorf("message = %q", v.Message())
	}
	v.ScrollDown(1)
	if v.Top() != 1 {
		t.Errorf("Top() = %d, want 1", v.Top())
	}
	v.ScrollDown(10)
	if v.Top() != 2 {
		t.Errorf("Top() = %d, want 2 (last full page)", v.Top())
	}
	v.ScrollDown(1)
	if v.Top() != 2 || v.Message() != "end of file" {
		t.Errorf("Top() = %d, message = %q", v.Top(), v.Message())
	}
	v.ScrollUp(1)
	if v.Top() != 1 || v.Message() != "" {
		t.Errorf("Top() = %d, message = %q", v.Top(), v.Message())
	}
}

func TestPaging(t *testing.T) {
	v, _ := newTestViewer(t, numberedLines(10), 3)

	var tops []int
	for range 4 {
		v.PageDown()
		tops = append(tops, v.Top())
	}
	if fmt.Sprint(tops) != "[3 6 9 9]" {
		t.Errorf("tops = %v, want [3 6 9 9]", tops)
	}
	if v.Page().Len() != 1 || v.Message() != "end of file" {
		t.Errorf("last page = %v, message %q", v.Page().Lines, v.Message())
	}

	tops = tops[:0]
	for range 4 {
		v.PageUp()
		tops = append(tops, v.Top())
	}
	if fmt.Sprint(tops) != "[6 3 0 0]" {
		t.Errorf("tops = %v, want [6 3 0 0]", tops)
	}
	if v.Message() != "top of file" {
		t.Errorf("message = %q", v.Message())
	}
}

func TestPageUpRefillsShortPage(t *testing.T) {
	v, _ := newTestViewer(t, numberedLines(10), 3)
	v.ScrollDown(2)
	v.PageUp()
	if v.Top() != 0 || v.Page().Len() != 3 {
		t.Errorf("page = %+v, want a full page from 0", v.Page())
	}
}

func TestJumps(t *testing.T) {
	v, _ := newTestViewer(t, numberedLines(10), 3)
	v.GoBottom()
	if v.Top() != 7 || v.Page().Lines[2] != "line 09" {
		t.Errorf("bottom page = %+v", v.Page())
	}
	v.GoLine(4)
	if v.Top() != 4 {
		t.Errorf("GoLine(4) top = %d", v.Top())
	}
	v.GoTop()
	if v.Top() != 0 {
		t.Errorf("GoTop top = %d", v.Top())
	}

	short, _ := newTestViewer(t, numberedLines(2), 5)
	short.GoBottom()
	if short.Top() != 0 || short.Page().Len() != 2 {
		t.Errorf("short file bottom = %+v", short.Page())
	}
}

func TestSearch(t *testing.T) {
	content := numberedLines(20)
	content[2] = "needle here"
	content[15] = "a needle, another needle"
	v, _ := newTestViewer(t, content, 5)

	v.Search("needle")
	if len(v.Matches()) != 3 {
		t.Fatalf("matches = %v", v.Matches())
	}
	if v.Top() != 0 || v.Message() != "match 1 of 3" {
		t.Errorf("top = %d, message = %q", v.Top(), v.Message())
	}

	v.NextMatch()
	if v.Top() != 15 || v.Message() != "match 2 of 3" {
		t.Errorf("top = %d, message = %q", v.Top(), v.Message())
	}
	v.NextMatch()
	if v.Top() != 15 {
		t.Error("a match already on screen should not scroll")
	}
	v.NextMatch()
	if v.Top() != 2 || v.Message() != "match 1 of 3" {
		t.Errorf("wrap: top = %d, message = %q", v.Top(), v.Message())
	}
	v.PrevMatch()
	if v.Message() != "match 3 of 3" {
		t.Errorf("PrevMatch message = %q", v.Message())
	}

	v.Search("absent")
	if v.Message() != "pattern not found: absent" || len(v.Matches()) != 0 {
		t.Errorf("message = %q", v.Message())
	}
	v.NextMatch()
	if v.Message() != "no search results" {
		t.Errorf("message = %q", v.Message())
	}
}

func TestSearchStartsAtTop(t *testing.T) {
	content := numberedLines(30)
	content[1] = "x"
	content[20] = "x"
	v, _ := newTestViewer(t, content, 5)
	v.GoLine(10)
	v.Search("x")
	if v.Top() != 20 || v.Message() != "match 2 of 2" {
		t.Errorf("top = %d, message = %q", v.Top(), v.Message())
	}
}

func TestUndoRedo(t *testing.T) {
	v, h := newTestViewer(t, numberedLines(5), 3)
	v.Undo()
	if v.Message() != "nothing to undo" {
		t.Errorf("message = %q", v.Message())
	}

	err := h.EditLines(engine.EditRequest{StartingLine: 0, EndingLine: 1, Lines: []string{"edited"}, FileName: "view.txt"})
	if err != nil {
		t.Fatal(err)
	}
	v.Resize(40, 4)
	if v.Page().Lines[0] != "edited" {
		t.Fatalf("page = %v", v.Page().Lines)
	}

	v.Undo()
	if v.Page().Lines[0] != "line 00" || v.Message() != "undone" {
		t.Errorf("after undo page = %v, message %q", v.Page().Lines, v.Message())
	}
	v.Redo()
	if v.Page().Lines[0] != "edited" || v.Message() != "redone" {
		t.Errorf("after redo page = %v, message %q", v.Page().Lines, v.Message())
	}
	v.Redo()
	if v.Message() != "nothing to redo" {
		t.Errorf("message = %q", v.Message())
	}
}

func TestUndoClampsWindow(t *testing.T) {
	v, h := newTestViewer(t, numberedLines(3), 3)
	err := h.EditLines(engine.EditRequest{StartingLine: 3, EndingLine: 3, Lines: numberedLines(10), FileName: "view.txt"})
	if err != nil {
		t.Fatal(err)
	}
	v.GoBottom()
	if v.Top() != 10 {
		t.Fatalf("Top() = %d", v.Top())
	}
	v.Undo()
	if v.Top() != 0 || v.Page().Len() != 3 {
		t.Errorf("after undo page = %+v", v.Page())
	}
}

func TestHandleKey(t *testing.T) {
	v, _ := newTestViewer(t, numberedLines(20), 4)

	steps := []struct {
		ev      *tcell.EventKey
		wantTop int
	}{
		{runeKey('j'), 1},
		{key(tcell.KeyDown), 2},
		{runeKey('k'), 1},
		{key(tcell.KeyUp), 0},
		{runeKey(' '), 4},
		{key(tcell.KeyPgDn), 8},
		{runeKey('b'), 4},
		{key(tcell.KeyPgUp), 0},
		{runeKey('G'), 16},
		{runeKey('g'), 0},
		{key(tcell.KeyEnd), 16},
		{key(tcell.KeyHome), 0},
	}
	for i, step := range steps {
		v.HandleKey(step.ev)
		if v.Top() != step.wantTop {
			t.Errorf("step %d (%s): top = %d, want %d", i, step.ev.Name(), v.Top(), step.wantTop)
		}
	}
	if v.Done() {
		t.Fatal("viewer quit early")
	}
	v.HandleKey(runeKey('q'))
	if !v.Done() {
		t.Error("q should quit")
	}
}

func TestSearchPrompt(t *testing.T) {
	content := numberedLines(20)
	content[12] = "target"
	v, _ := newTestViewer(t, content, 4)

	v.HandleKey(runeKey('/'))
	if v.Mode() != ModeSearch {
		t.Fatal("/ should enter search mode")
	}
	for _, r := range "targex" {
		v.HandleKey(runeKey(r))
	}
	v.HandleKey(key(tcell.KeyBackspace2))
	v.HandleKey(runeKey('t'))

	s := newFakeScreen(40, 5)
	v.Draw(s)
	if got := s.row(4); got != "/target" {
		t.Errorf("prompt = %q", got)
	}

	v.HandleKey(key(tcell.KeyEnter))
	if v.Mode() != ModeNormal || v.Top() != 12 {
		t.Errorf("mode = %v, top = %d", v.Mode(), v.Top())
	}

	v.HandleKey(runeKey('/'))
	v.HandleKey(runeKey('z'))
	v.HandleKey(key(tcell.KeyEscape))
	if v.Mode() != ModeNormal || v.Done() {
		t.Error("Esc in the prompt should cancel the search, not quit")
	}
}

func TestDraw(t *testing.T) {
	content := []string{"alpha", "beta\tgamma", "日本語テキスト", "a very long line that will not fit on the screen"}
	v, _ := newTestViewer(t, content, 4)
	s := newFakeScreen(20, 5)
	v.Draw(s)

	want := []string{
		"1 alpha",
		"2 beta    gamma",
		"3 日本語テキスト",
		"4 a very long line t",
		" view.txt  1-4/4",
	}
	for y, w := range want {
		got := s.row(y)
		// Wide runes occupy two cells; the fake screen stores only the lead cell.
		if y == 2 {
			if !strings.HasPrefix(got, "3 日") {
				t.Errorf("row %d = %q", y, got)
			}
			continue
		}
		if got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	if s.shows != 1 {
		t.Errorf("Show called %d times", s.shows)
	}
	if s.styles[[2]int{0, 4}] != styleStatus {
		t.Error("status line should use the status style")
	}
}

func TestDrawHighlightsMatches(t *testing.T) {
	v, _ := newTestViewer(t, []string{"xx ab xx ab"}, 2)
	v.Search("ab")
	s := newFakeScreen(20, 3)
	v.Draw(s)

	// Gutter is "1 ", so text starts at column 2.
	for _, x := range []int{5, 6, 11, 12} {
		if s.styles[[2]int{x, 0}] != styleMatch {
			t.Errorf("cell %d not highlighted", x)
		}
	}
	for _, x := range []int{2, 4, 7, 10} {
		if s.styles[[2]int{x, 0}] == styleMatch {
			t.Errorf("cell %d wrongly highlighted", x)
		}
	}
	if got := v.CursorColumn(); got != 3 {
		t.Errorf("CursorColumn() = %d, want 3", got)
	}
}

func TestColumnOf(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want int
	}{
		{"abc", 2, 2},
		{"\tx", 1, 4},
		{"a\tx", 2, 4},
		{"日本x", 2, 4},
		{"héllo", 2, 2},
	}
	for _, tt := range tests {
		if got := columnOf(tt.line, tt.col, 4); got != tt.want {
			t.Errorf("columnOf(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestByteOffset(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want int
	}{
		{"abc", 1, 1},
		{"héllo", 2, 3},
		{"日本x", 2, 6},
		{"ab", 5, 2},
	}
	for _, tt := range tests {
		if got := byteOffset(tt.line, tt.col); got != tt.want {
			t.Errorf("byteOffset(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestDrawHighlightsNonASCIIMatch(t *testing.T) {
	v, _ := newTestViewer(t, []string{"héllo wörld"}, 2)
	v.Search("wörld")
	s := newFakeScreen(20, 3)
	v.Draw(s)

	// Gutter is "1 "; "héllo " fills cells 2-7.
	for x := 8; x <= 12; x++ {
		if s.styles[[2]int{x, 0}] != styleMatch {
			t.Errorf("cell %d not highlighted", x)
		}
	}
	for _, x := range []int{2, 3, 7, 13} {
		if s.styles[[2]int{x, 0}] == styleMatch {
			t.Errorf("cell %d wrongly highlighted", x)
		}
	}
	if got := v.CursorColumn(); got != 6 {
		t.Errorf("CursorColumn() = %d, want 6", got)
	}
}

func TestRun(t *testing.T) {
	h := engine.New()
	if _, err := h.LoadFile(lines.NewFileInfo("run.txt", numberedLines(50))); err != nil {
		t.Fatal(err)
	}
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(30, 10)

	v := New(h)
	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), s, v) }()

	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if v.Top() != 9 {
		t.Errorf("Top() = %d, want 9 after one page", v.Top())
	}
}

func TestRunContextCancel(t *testing.T) {
	h := engine.New()
	if _, err := h.LoadFile(lines.NewFileInfo("run.txt", numberedLines(5))); err != nil {
		t.Fatal(err)
	}
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, s, New(h)); err != context.Canceled {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}
