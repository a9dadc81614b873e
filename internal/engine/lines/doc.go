// Package lines provides the line stores that back a source file version.
//
// A Version holds the ordered lines of one file and answers windowed reads
// without materializing the whole file for the caller:
//
//   - Before(line, count): the count lines ending just before line
//   - After(line, count): the count lines starting just after line
//   - From(line, count): the count lines starting at line
//
// All reads clamp silently at the file boundaries. A window that runs off
// either end comes back shorter, or empty, and is never an error. Negative
// line numbers or counts are malformed and fail with ErrInvalidRange.
//
// Mutations are expressed as Edits, a closed set of two variants:
//
//   - UpdateLines replaces the half-open range [StartingLine, StartingLine+Count)
//     with new lines. Ranges running past the end are truncated to the file.
//   - SearchReplace replaces every occurrence of a pattern on every line.
//
// # Variants
//
// Three storage strategies implement Version. They behave identically and
// differ only in cost:
//
//   - Contiguous: one slice. O(1) window offset, O(n) splice.
//   - Linked: doubly linked nodes. Splicing does not shift; indexing walks.
//   - Paged: fixed-capacity buckets (default 50 lines). Reads locate the
//     first bucket by binary search; updates rebuild only touched buckets.
//
// Clone returns an independent Version of the same kind. Lines are Go
// strings and therefore immutable, so a clone shares line text but never
// shares mutable storage. The Paged variant additionally shares buckets
// copy-on-write, making a clone cost proportional to the bucket count.
package lines
