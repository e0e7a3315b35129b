package shell

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/text-extractor/pkg/logger"
)

func TestRunCapturesOutput(t *testing.T) {
	r := NewRunner(logger.NewTestLogger())

	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestRunNonZeroExit(t *testing.T) {
	r := NewRunner(logger.NewTestLogger())

	_, err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 1")
	require.Error(t, err)

	var shellErr *ShellError
	require.True(t, errors.As(err, &shellErr))
	assert.Equal(t, 1, shellErr.ExitCode)
	assert.Equal(t, "boom\n", string(shellErr.Stderr))
	assert.Equal(t, []string{"sh", "-c", "echo boom >&2; exit 1"}, shellErr.Command)
	assert.Contains(t, shellErr.Error(), "boom")
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner(logger.NewTestLogger())

	_, err := r.Run(context.Background(), "definitely-not-a-real-binary-3f9a")
	require.Error(t, err)

	var shellErr *ShellError
	assert.False(t, errors.As(err, &shellErr), "start failures are not shell errors")
}

// A command writing well past the OS pipe buffer must complete without
// hanging on a blocked pipe.
func TestRunLargeOutputDoesNotDeadlock(t *testing.T) {
	r := NewRunner(logger.NewTestLogger())

	const size = 8 * 1024 * 1024
	res, err := r.Run(context.Background(), "sh", "-c", "head -c 8388608 /dev/zero")
	require.NoError(t, err)
	assert.Len(t, res.Stdout, size)
}

func TestInstalled(t *testing.T) {
	assert.True(t, Installed("sh"))
	assert.False(t, Installed("definitely-not-a-real-binary-3f9a"))
}

func TestTempFileCleanup(t *testing.T) {
	path, cleanup, err := TempFile("scratch-*.txt")
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	cleanup()

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTempDirCleanup(t *testing.T) {
	dir, cleanup, err := TempDir("scratch-*")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dir+"/page1.png", []byte("x"), 0644))

	cleanup()

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
