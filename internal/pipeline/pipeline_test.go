package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

type fakeExtractor struct {
	content textenc.Content
	err     error
}

func (f *fakeExtractor) Extract(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	if f.err != nil {
		return textenc.Content{}, f.err
	}
	return f.content, nil
}

func newTestPipeline(t *testing.T, e extractor.Extractor, exts ...string) *Pipeline {
	t.Helper()
	log := logger.NewTestLogger()
	reg := extractor.NewRegistry(log)
	reg.Register(e, exts...)
	return NewWithRegistry(reg, log)
}

// ASCII in, UTF-8 out: the bytes must survive the whole pipeline unchanged.
func TestProcessPlainASCIIEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	content := []byte("hello extraction pipeline\nline two\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	out, err := New(logger.NewTestLogger()).Process(context.Background(), path, "utf-8", nil)
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestProcessDefaultEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain"), 0644))

	out, err := New(logger.NewTestLogger()).Process(context.Background(), path, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(out))
}

func TestProcessUnsupportedFileType(t *testing.T) {
	p := New(logger.NewTestLogger())

	_, err := p.Process(context.Background(), "input.mkv", "utf-8", nil)
	require.Error(t, err)

	var extErr *extractor.Error
	assert.True(t, errors.As(err, &extErr))
}

// An extractor that returns decoded text skips detection entirely and the
// text reaches the encoder as-is.
func TestProcessDecodedTextContent(t *testing.T) {
	fake := &fakeExtractor{content: textenc.Text("cafés & naïveté")}
	p := newTestPipeline(t, fake, ".pdf")

	out, err := p.Process(context.Background(), "doc.pdf", "utf-8", nil)
	require.NoError(t, err)
	assert.Equal(t, "cafés & naïveté", string(out))
}

func TestProcessTargetEncodingApplied(t *testing.T) {
	fake := &fakeExtractor{content: textenc.Text("résumé \U0001F600")}
	p := newTestPipeline(t, fake, ".pdf")

	out, err := p.Process(context.Background(), "doc.pdf", "iso-8859-1", nil)
	require.NoError(t, err)
	// é survives as latin-1, the emoji is dropped
	assert.Equal(t, []byte("r\xe9sum\xe9 "), out)
}

func TestProcessUnsupportedTargetEncoding(t *testing.T) {
	fake := &fakeExtractor{content: textenc.Text("text")}
	p := newTestPipeline(t, fake, ".pdf")

	_, err := p.Process(context.Background(), "doc.pdf", "klingon-1", nil)
	require.Error(t, err)

	var unsupported *textenc.UnsupportedEncodingError
	assert.True(t, errors.As(err, &unsupported))
}

// Stage failures abort the run and surface unchanged.
func TestProcessExtractorErrorSurfaces(t *testing.T) {
	want := &extractor.Error{Format: "pdf", Path: "doc.pdf", Msg: "corrupt document"}
	fake := &fakeExtractor{err: want}
	p := newTestPipeline(t, fake, ".pdf")

	_, err := p.Process(context.Background(), "doc.pdf", "utf-8", nil)
	require.Error(t, err)

	var extErr *extractor.Error
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "corrupt document", extErr.Msg)
}
