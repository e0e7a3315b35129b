package plaintext

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

func TestExtractReadsFileBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	content := []byte("line one\nline two\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	got, err := New(logger.NewTestLogger()).Extract(context.Background(), path, nil)
	require.NoError(t, err)

	text, err := textenc.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, string(content), text)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New(logger.NewTestLogger()).Extract(context.Background(),
		filepath.Join(t.TempDir(), "absent.txt"), nil)
	require.Error(t, err)

	var extErr *extractor.Error
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "text", extErr.Format)
}
