// Package shell runs the external command-line tools the extractors depend
// on (pdftotext, tesseract, antiword, ...) and captures their output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/feichai0017/text-extractor/pkg/logger"
)

// Result holds the captured output of a completed command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ShellError reports a command that exited non-zero. It carries the full
// argv, exit code and both output streams so a failure can be diagnosed
// without re-running the tool.
type ShellError struct {
	Command  []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *ShellError) Error() string {
	msg := string(bytes.TrimSpace(e.Stderr))
	if msg == "" {
		msg = string(bytes.TrimSpace(e.Stdout))
	}
	return fmt.Sprintf("command %q exited with code %d: %s",
		strings.Join(e.Command, " "), e.ExitCode, msg)
}

// Runner executes external commands synchronously.
type Runner struct {
	logger logger.Logger
}

// NewRunner creates a new runner instance
func NewRunner(log logger.Logger) *Runner {
	return &Runner{logger: log}
}

// Run executes name with args and waits for completion. Both output pipes
// are drained while the process runs (os/exec pumps them on internal
// goroutines), so a tool that writes more than the OS pipe buffer cannot
// deadlock against a blocked wait. A non-zero exit returns *ShellError;
// a command that cannot be started at all returns the start error wrapped.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running command",
		logger.String("command", name),
		logger.Any("args", args),
	)

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ShellError{
				Command:  append([]string{name}, args...),
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.Bytes(),
				Stderr:   stderr.Bytes(),
			}
		}
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: 0,
	}, nil
}

// Installed reports whether name resolves to an executable on PATH.
func Installed(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
