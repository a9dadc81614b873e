// Package cursor provides the line/column position type shared by the
// engine packages.
//
// A Cursor marks a position inside a source file as a 0-indexed line number
// and a 0-indexed column. It is used both as edit context (where the caller's
// caret was when a request was issued) and to report search matches.
//
// Cursor is an immutable value type. Two cursors are equal when their line
// and column are equal, so plain == comparison works:
//
//	a := cursor.New(3, 7)
//	b := cursor.New(3, 7)
//	a == b // true
//
// Columns count characters (runes) from the start of the line, not bytes.
package cursor
