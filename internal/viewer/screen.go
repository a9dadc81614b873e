// Package viewer is a terminal pager over an engine.Handler.
//
// The viewer never holds the whole file. Every scroll, jump and search
// result is turned into a windowed read, and only the returned page is drawn.
package viewer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen is the part of tcell.Screen the viewer draws with.
type Screen interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Clear()
	Show()
}

var _ Screen = tcell.Screen(nil)

// Styles used when drawing.
var (
	styleText   = tcell.StyleDefault
	styleGutter = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleMatch  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// drawText draws s at (x, y) and returns the column after it. Text past
// maxX is clipped; a wide rune that would straddle maxX is not drawn.
// Tabs are expanded to the next multiple of tabWidth measured from x0.
func drawText(s Screen, x0, x, y, maxX int, text string, style tcell.Style, tabWidth int) int {
	for _, r := range text {
		if r == '\t' {
			next := x + tabWidth - (x-x0)%tabWidth
			for ; x < next && x < maxX; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// columnOf returns the display column of character offset col within line.
func columnOf(line string, col, tabWidth int) int {
	x, n := 0, 0
	for _, r := range line {
		if n >= col {
			break
		}
		n++
		if r == '\t' {
			x += tabWidth - x%tabWidth
			continue
		}
		x += runewidth.RuneWidth(r)
	}
	return x
}

// byteOffset converts character offset col within line to a byte offset.
func byteOffset(line string, col int) int {
	n := 0
	for i := range line {
		if n == col {
			return i
		}
		n++
	}
	return len(line)
}
