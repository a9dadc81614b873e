package lines

import (
	"fmt"

	"github.com/dshills/sourcebuf/internal/engine/cursor"
)

// Edit is a structured mutation that can be applied to any Version.
// The set of edits is closed: UpdateLines and SearchReplace.
type Edit interface {
	// Description returns a human-readable description of the edit.
	Description() string

	validate() error
	applyTo(v Version) error
}

// UpdateLines replaces the half-open range [StartingLine, StartingLine+Count)
// with Lines. len(Lines) need not equal Count.
type UpdateLines struct {
	StartingLine int
	Count        int
	Lines        []string
	Cursor       cursor.Cursor
}

// Description returns a human-readable description.
func (u UpdateLines) Description() string {
	switch {
	case u.Count == 0:
		return fmt.Sprintf("Insert %d line(s) at %d", len(u.Lines), u.StartingLine)
	case len(u.Lines) == 0:
		return fmt.Sprintf("Delete lines %d-%d", u.StartingLine, u.StartingLine+u.Count-1)
	default:
		return fmt.Sprintf("Update lines %d-%d", u.StartingLine, u.StartingLine+u.Count-1)
	}
}

func (u UpdateLines) validate() error {
	if u.StartingLine < 0 || u.Count < 0 {
		return fmt.Errorf("%w: update start %d, count %d", ErrInvalidRange, u.StartingLine, u.Count)
	}
	return nil
}

func (u UpdateLines) applyTo(v Version) error {
	return v.ApplyUpdate(u)
}

// SearchReplace replaces every occurrence of Pattern with Replacement on
// every line. An empty Pattern makes it a no-op.
type SearchReplace struct {
	Pattern     string
	Replacement string
}

// Description returns a human-readable description.
func (s SearchReplace) Description() string {
	return fmt.Sprintf("Replace %q with %q", s.Pattern, s.Replacement)
}

func (s SearchReplace) validate() error {
	return nil
}

func (s SearchReplace) applyTo(v Version) error {
	v.ApplySearchReplace(s)
	return nil
}

// Validate checks edits for malformed ranges without applying them.
func Validate(edits ...Edit) error {
	for i, e := range edits {
		if e == nil {
			return fmt.Errorf("edit %d: nil edit", i)
		}
		if err := e.validate(); err != nil {
			return fmt.Errorf("edit %d: %w", i, err)
		}
	}
	return nil
}

// applyAll validates every edit and then applies them in order.
// Nothing is applied if any edit is malformed.
func applyAll(v Version, edits []Edit) error {
	if err := Validate(edits...); err != nil {
		return err
	}
	for _, e := range edits {
		if err := e.applyTo(v); err != nil {
			return err
		}
	}
	return nil
}
