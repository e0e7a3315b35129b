package html

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

func extractText(t *testing.T, markup string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(markup), 0644))

	got, err := New(logger.NewTestLogger()).Extract(context.Background(), path, nil)
	require.NoError(t, err)

	text, err := textenc.Decode(got)
	require.NoError(t, err)
	return text
}

func TestExtractStripsMarkup(t *testing.T) {
	text := extractText(t, `<html><body><p>Hello <b>bold</b> world</p></body></html>`)
	assert.Equal(t, "Hello bold world\n", text)
}

func TestExtractSkipsScriptAndStyle(t *testing.T) {
	text := extractText(t, `<html>
<head><title>ignored</title><style>p { color: red }</style></head>
<body><p>visible</p><script>var hidden = "nope";</script></body>
</html>`)
	assert.Contains(t, text, "visible")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "ignored")
}

func TestExtractBlockBoundaries(t *testing.T) {
	text := extractText(t, `<ul><li>one</li><li>two</li></ul><p>after<br/>break</p>`)
	assert.Contains(t, text, "one\n")
	assert.Contains(t, text, "two\n")
	assert.Contains(t, text, "after\nbreak")
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New(logger.NewTestLogger()).Extract(context.Background(),
		filepath.Join(t.TempDir(), "absent.html"), nil)
	assert.Error(t, err)
}
