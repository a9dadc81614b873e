package loader

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrBinaryFile is returned when content does not look like text.
var ErrBinaryFile = errors.New("binary file")

// Encoding is the character encoding of a file on disk.
type Encoding string

const (
	// EncodingUTF8 is UTF-8 encoding (default).
	EncodingUTF8 Encoding = "utf-8"
	// EncodingUTF8BOM is UTF-8 encoding with BOM.
	EncodingUTF8BOM Encoding = "utf-8-bom"
	// EncodingUTF16LE is UTF-16 Little Endian with BOM.
	EncodingUTF16LE Encoding = "utf-16le"
	// EncodingUTF16BE is UTF-16 Big Endian with BOM.
	EncodingUTF16BE Encoding = "utf-16be"
	// EncodingLatin1 is ISO-8859-1, used when content is not valid UTF-8.
	EncodingLatin1 Encoding = "iso-8859-1"
)

// LineEnding is the line terminator style of a file.
type LineEnding string

const (
	// LineEndingLF is Unix-style line ending (\n).
	LineEndingLF LineEnding = "lf"
	// LineEndingCRLF is Windows-style line ending (\r\n).
	LineEndingCRLF LineEnding = "crlf"
	// LineEndingCR is old Mac-style line ending (\r).
	LineEndingCR LineEnding = "cr"
)

// String returns the terminator bytes.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Format records how a file was stored so that Save can write it back the
// same way.
type Format struct {
	Encoding        Encoding
	LineEnding      LineEnding
	TrailingNewline bool
}

// DefaultFormat is used for new files.
func DefaultFormat() Format {
	return Format{Encoding: EncodingUTF8, LineEnding: LineEndingLF, TrailingNewline: true}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding detects the encoding of raw file content from its BOM,
// falling back to Latin-1 when the content is not valid UTF-8.
func DetectEncoding(content []byte) Encoding {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(content):
		return EncodingUTF8
	default:
		return EncodingLatin1
	}
}

// codec returns the x/text encoding for enc.
func codec(enc Encoding) encoding.Encoding {
	switch enc {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case EncodingLatin1:
		return charmap.ISO8859_1
	default:
		return unicode.UTF8
	}
}

// Decode converts raw content to UTF-8 text.
func Decode(content []byte) (string, Encoding, error) {
	enc := DetectEncoding(content)
	if enc == EncodingUTF8 {
		return string(content), enc, nil
	}
	out, _, err := transform.Bytes(codec(enc).NewDecoder(), content)
	if err != nil {
		return "", enc, err
	}
	return string(out), enc, nil
}

// Encode converts UTF-8 text to enc.
func Encode(text string, enc Encoding) ([]byte, error) {
	if enc == EncodingUTF8 || enc == "" {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(codec(enc).NewEncoder(), []byte(text))
	return out, err
}

// DetectLineEnding returns the most frequent line terminator in text.
// Text with no terminators is reported as LF.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	switch {
	case crlf > lf && crlf >= cr:
		return LineEndingCRLF
	case cr > lf && cr > crlf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// IsBinary reports whether content looks like binary data: a NUL byte or
// more than 10% control characters in the first 8KB.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	// UTF-16 text is full of NUL bytes.
	if bytes.HasPrefix(content, bomUTF16LE) || bytes.HasPrefix(content, bomUTF16BE) {
		return false
	}
	sample := content[:min(len(content), 8192)]
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return nonText*10 > len(sample)
}

// SplitLines splits text into lines, accepting any mix of LF, CRLF and CR
// terminators. A final terminator does not start an extra empty line.
// The result is never nil.
func SplitLines(text string) ([]string, bool) {
	out := []string{}
	if text == "" {
		return out, false
	}
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			out = append(out, text[start:i])
			start = i + 1
		case '\r':
			out = append(out, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
		return out, false
	}
	return out, true
}

// JoinLines joins lines with the given terminator.
func JoinLines(lines []string, ending LineEnding, trailing bool) string {
	if len(lines) == 0 {
		return ""
	}
	sep := ending.String()
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(line)
	}
	if trailing {
		b.WriteString(sep)
	}
	return b.String()
}
