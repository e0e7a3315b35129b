package shell

import (
	"fmt"
	"os"
)

// TempFile creates an empty scratch file and returns its path together with
// a cleanup func. Callers defer the cleanup so the file is removed on every
// exit path, including errors raised while the file is still in use.
func TempFile(pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", nil, fmt.Errorf("failed to close scratch file: %w", err)
	}
	return name, func() { os.Remove(name) }, nil
}

// TempDir creates a scratch directory with the same cleanup contract as
// TempFile. Used by extractors that fan a document out into per-page files.
func TempDir(pattern string) (string, func(), error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
