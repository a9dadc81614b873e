package cursor

import "fmt"

// Cursor represents a line and column position.
// Both Line and Column are 0-indexed.
type Cursor struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column (character offset within line)
}

// New creates a cursor at the given line and column.
func New(line, column int) Cursor {
	return Cursor{Line: line, Column: column}
}

// LineStart returns a cursor at column 0 of the given line.
func LineStart(line int) Cursor {
	return Cursor{Line: line}
}

// String returns a human-readable representation of the cursor.
func (c Cursor) String() string {
	return fmt.Sprintf("(%d:%d)", c.Line, c.Column)
}

// Compare returns -1 if c < other, 0 if c == other, 1 if c > other.
func (c Cursor) Compare(other Cursor) int {
	if c.Line < other.Line {
		return -1
	}
	if c.Line > other.Line {
		return 1
	}
	if c.Column < other.Column {
		return -1
	}
	if c.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if c comes before other.
func (c Cursor) Before(other Cursor) bool {
	return c.Compare(other) < 0
}

// After returns true if c comes after other.
func (c Cursor) After(other Cursor) bool {
	return c.Compare(other) > 0
}

// IsZero returns true if this is the zero cursor (0:0).
func (c Cursor) IsZero() bool {
	return c.Line == 0 && c.Column == 0
}

// IsValid returns true if neither coordinate is negative.
func (c Cursor) IsValid() bool {
	return c.Line >= 0 && c.Column >= 0
}

// MoveTo returns a new cursor at the given line, keeping the column.
func (c Cursor) MoveTo(line int) Cursor {
	return Cursor{Line: line, Column: c.Column}
}

// Clamp returns a cursor whose line lies in [0, lineCount-1].
// The column is left untouched except for being floored at 0.
func (c Cursor) Clamp(lineCount int) Cursor {
	line, col := c.Line, c.Column
	if line >= lineCount {
		line = lineCount - 1
	}
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return Cursor{Line: line, Column: col}
}
