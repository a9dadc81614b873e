package engine

import (
	"errors"

	"github.com/dshills/sourcebuf/internal/engine/lines"
)

// Errors returned by handler operations.
var (
	// ErrInvalidRange indicates a negative line number or count, or an edit
	// whose ending line precedes its starting line.
	ErrInvalidRange = lines.ErrInvalidRange

	// ErrNoFile indicates an operation was attempted before LoadFile.
	ErrNoFile = errors.New("no file loaded")
)
