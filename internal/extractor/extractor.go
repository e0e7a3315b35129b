// Package extractor defines the capability surface format-specific
// extractors implement and the table that selects one per file.
package extractor

import (
	"context"
	"fmt"

	"github.com/feichai0017/text-extractor/pkg/textenc"
)

// Options carries extractor-specific settings as opaque key/value pairs.
// One map is shared across heterogeneous extractor invocations: each
// extractor reads the keys it understands and ignores the rest.
type Options map[string]string

// Get returns the value for key, or "" when absent.
func (o Options) Get(key string) string {
	if o == nil {
		return ""
	}
	return o[key]
}

// Bool interprets the value for key as a flag.
func (o Options) Bool(key string) bool {
	switch o.Get(key) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Extractor turns a document file into raw textual content. Implementations
// return either raw bytes in an unknown encoding or already-decoded text;
// the pipeline handles both.
type Extractor interface {
	Extract(ctx context.Context, path string, opts Options) (textenc.Content, error)
}

// Error is a format-specific extraction failure: a missing external tool,
// a corrupt document, or an unsupported requested sub-method. Shell
// failures are wrapped with %w so errors.As still reaches the underlying
// *shell.ShellError.
type Error struct {
	Format string
	Path   string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Format, e.Msg)
	if e.Path != "" {
		s += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }
