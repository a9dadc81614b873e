package lines

import "fmt"

// checkWindow rejects negative line numbers and counts.
func checkWindow(line, count int) error {
	if line < 0 || count < 0 {
		return fmt.Errorf("%w: line %d, count %d", ErrInvalidRange, line, count)
	}
	return nil
}

// beforeBounds returns [start, end) for the count lines preceding line.
func beforeBounds(size, line, count int) (int, int) {
	end := min(line, size)
	start := max(0, line-count)
	if start > end {
		start = end
	}
	return start, end
}

// afterBounds returns [start, end) for the count lines following line.
// The range is empty when line is the last line or beyond.
func afterBounds(size, line, count int) (int, int) {
	start := line + 1
	end := min(line+count+1, size)
	if start > end {
		start = end
	}
	return start, end
}

// fromBounds returns [start, end) for the count lines starting at line.
func fromBounds(size, line, count int) (int, int) {
	end := min(line+count, size)
	start := line
	if start > end {
		start = end
	}
	return start, end
}

// updateBounds truncates an update range to the file.
func updateBounds(size, start, count int) (int, int) {
	s := min(start, size)
	e := min(start+count, size)
	return s, e
}

// window copies src so callers never alias store memory.
// The result is never nil.
func window(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
