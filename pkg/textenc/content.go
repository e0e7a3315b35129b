// Package textenc implements the decode/encode half of the extraction
// pipeline: foreign bytes are converted to UTF-8 text at the input boundary
// and re-encoded into a caller-chosen character set at the output boundary.
package textenc

// DefaultEncoding is the output encoding used when the caller does not
// specify one.
const DefaultEncoding = "utf-8"

// Content is the raw output of an extractor: either a byte sequence in an
// unknown encoding, or text the extractor already decoded itself.
type Content struct {
	bytes   []byte
	text    string
	decoded bool
}

// Bytes wraps a raw byte sequence whose encoding is not yet known.
func Bytes(b []byte) Content {
	return Content{bytes: b}
}

// Text wraps already-decoded text.
func Text(s string) Content {
	return Content{text: s, decoded: true}
}
