package history

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a redo policy name cannot be parsed.
var ErrUnknownPolicy = errors.New("unknown redo policy")

// RedoPolicy decides what happens to the redo stack when a new edit is
// recorded.
type RedoPolicy uint8

const (
	// RedoPreserve keeps redo entries across new edits.
	RedoPreserve RedoPolicy = iota
	// RedoClearOnEdit drops all redo entries when a new edit is recorded.
	RedoClearOnEdit
)

// String returns the configuration name of the policy.
func (p RedoPolicy) String() string {
	switch p {
	case RedoPreserve:
		return "preserve"
	case RedoClearOnEdit:
		return "clear"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy parses a configuration name into a RedoPolicy.
// The empty string selects RedoPreserve.
func ParsePolicy(s string) (RedoPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve", "keep":
		return RedoPreserve, nil
	case "clear", "clear-on-edit", "clear_on_edit":
		return RedoClearOnEdit, nil
	default:
		return RedoPreserve, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
