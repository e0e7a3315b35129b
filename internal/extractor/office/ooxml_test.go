package office

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/shell"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

func writeContainer(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for partName, body := range parts {
		w, err := zw.Create(partName)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func newOfficeExtractor(t *testing.T) *Extractor {
	t.Helper()
	log := logger.NewTestLogger()
	return New(shell.NewRunner(log), log)
}

func TestExtractDocx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>run</w:t></w:r></w:p>
  </w:body>
</w:document>`
	path := writeContainer(t, "doc.docx", map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   doc,
	})

	got, err := newOfficeExtractor(t).Extract(context.Background(), path, nil)
	require.NoError(t, err)

	text, err := textenc.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond run\n", text)
}

// Slide parts are concatenated in name order regardless of zip layout.
func TestExtractPptxSlideOrder(t *testing.T) {
	slide := func(text string) string {
		return `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
 xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody>
</p:sld>`
	}
	path := writeContainer(t, "deck.pptx", map[string]string{
		"ppt/slides/slide2.xml": slide("second slide"),
		"ppt/slides/slide1.xml": slide("first slide"),
	})

	got, err := newOfficeExtractor(t).Extract(context.Background(), path, nil)
	require.NoError(t, err)

	text, err := textenc.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, "first slide\nsecond slide\n", text)
}

func TestExtractDocxMissingPart(t *testing.T) {
	path := writeContainer(t, "empty.docx", map[string]string{
		"[Content_Types].xml": "<Types/>",
	})

	_, err := newOfficeExtractor(t).Extract(context.Background(), path, nil)
	require.Error(t, err)

	var extErr *extractor.Error
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, path, extErr.Path)
}

func TestExtractNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a container"), 0644))

	_, err := newOfficeExtractor(t).Extract(context.Background(), path, nil)
	require.Error(t, err)

	var extErr *extractor.Error
	assert.True(t, errors.As(err, &extErr))
}
