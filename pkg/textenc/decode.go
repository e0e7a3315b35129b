package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
)

// DecodeError reports a byte sequence that could not be decoded with the
// detected encoding. No fallback encoding is substituted: corrupt input
// should fail loudly rather than turn into garbled output.
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to decode as %s: %v", e.Encoding, e.Err)
	}
	return fmt.Sprintf("failed to decode as %s: malformed input", e.Encoding)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// detector is stateless and safe for concurrent use.
var detector = chardet.NewTextDetector()

// Decode converts extractor output into a UTF-8 string. Text content is
// returned unchanged, so decoding already-decoded output is a no-op. Byte
// content is run through statistical charset detection and decoded with the
// top guess; the guess's confidence score is not thresholded, the best
// candidate always wins.
func Decode(c Content) (string, error) {
	if c.decoded {
		return c.text, nil
	}

	// Empty input is undefined behavior for the detector; short-circuit.
	if len(c.bytes) == 0 {
		return "", nil
	}

	best, err := detector.DetectBest(c.bytes)
	if err != nil || best == nil {
		return "", &DecodeError{Encoding: "unknown", Err: err}
	}

	enc, err := Lookup(best.Charset)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(c.bytes)
	if err != nil {
		return "", &DecodeError{Encoding: best.Charset, Err: err}
	}

	// x/text decoders substitute U+FFFD for byte sequences the charset
	// cannot map. A substitution the source did not already contain means
	// the input is inconsistent with the detected encoding.
	decoded := string(out)
	if strings.ContainsRune(decoded, utf8.RuneError) && !strings.Contains(string(c.bytes), "�") {
		return "", &DecodeError{Encoding: best.Charset}
	}

	return decoded, nil
}
