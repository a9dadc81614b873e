package lines

import "errors"

// Errors returned by line store operations.
var (
	// ErrInvalidRange indicates a negative line number or count.
	ErrInvalidRange = errors.New("invalid range")

	// ErrUnknownKind indicates an unrecognized storage kind.
	ErrUnknownKind = errors.New("unknown storage kind")
)
