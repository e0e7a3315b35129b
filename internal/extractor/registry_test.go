package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

type stubExtractor struct {
	name     string
	lastPath string
	lastOpts Options
}

func (s *stubExtractor) Extract(ctx context.Context, path string, opts Options) (textenc.Content, error) {
	s.lastPath = path
	s.lastOpts = opts
	return textenc.Text(s.name), nil
}

func TestRegistrySelectsByExtension(t *testing.T) {
	reg := NewRegistry(logger.NewTestLogger())

	txt := &stubExtractor{name: "txt"}
	pdf := &stubExtractor{name: "pdf"}
	reg.Register(txt, ".txt", ".md")
	reg.Register(pdf, ".pdf")

	e, err := reg.ForFile("/tmp/report.pdf")
	require.NoError(t, err)
	assert.Same(t, Extractor(pdf), e)

	e, err = reg.ForFile("notes.md")
	require.NoError(t, err)
	assert.Same(t, Extractor(txt), e)
}

func TestRegistryExtensionCaseInsensitive(t *testing.T) {
	reg := NewRegistry(logger.NewTestLogger())
	stub := &stubExtractor{name: "pdf"}
	reg.Register(stub, ".pdf")

	_, err := reg.ForFile("SCAN.PDF")
	require.NoError(t, err)
}

func TestRegistryUnsupportedExtension(t *testing.T) {
	reg := NewRegistry(logger.NewTestLogger())

	_, err := reg.ForFile("movie.mkv")
	require.Error(t, err)

	var extErr *Error
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "movie.mkv", extErr.Path)
	assert.Contains(t, extErr.Error(), ".mkv")
}

// One options map is shared across extractors; each reads its own keys and
// ignores the rest, so unknown keys must pass through untouched.
func TestOptionsPassThrough(t *testing.T) {
	reg := NewRegistry(logger.NewTestLogger())
	stub := &stubExtractor{name: "pdf"}
	reg.Register(stub, ".pdf")

	opts := Options{"method": "native", "lang": "deu", "somebody-elses-key": "42"}

	e, err := reg.ForFile("a.pdf")
	require.NoError(t, err)
	_, err = e.Extract(context.Background(), "a.pdf", opts)
	require.NoError(t, err)

	assert.Equal(t, opts, stub.lastOpts)
}

func TestOptionsHelpers(t *testing.T) {
	opts := Options{"layout": "true", "width": "800", "flag": "0"}

	assert.True(t, opts.Bool("layout"))
	assert.False(t, opts.Bool("flag"))
	assert.False(t, opts.Bool("missing"))
	assert.Equal(t, "800", opts.Get("width"))
	assert.Equal(t, "", opts.Get("missing"))

	var nilOpts Options
	assert.Equal(t, "", nilOpts.Get("anything"))
	assert.False(t, nilOpts.Bool("anything"))
}
