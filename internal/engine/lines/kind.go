package lines

import (
	"fmt"
	"strings"
)

// Kind selects the storage strategy of a Version.
type Kind uint8

const (
	// Contiguous stores all lines in a single slice.
	Contiguous Kind = iota
	// Linked stores each line in a doubly linked node.
	Linked
	// Paged groups lines into fixed-capacity buckets.
	Paged
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case Contiguous:
		return "contiguous"
	case Linked:
		return "linked"
	case Paged:
		return "paged"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses a configuration name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contiguous", "array", "slice":
		return Contiguous, nil
	case "linked", "list":
		return Linked, nil
	case "paged", "bucket", "hybrid":
		return Paged, nil
	default:
		return Contiguous, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}
