// Package office extracts text from word-processing and presentation
// formats. OOXML containers (.docx, .pptx) are unpacked in-process; the
// legacy formats shell out to the tools that understand them (.doc →
// antiword, .rtf → unrtf).
package office

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/shell"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

type Extractor struct {
	runner *shell.Runner
	logger logger.Logger
}

func New(runner *shell.Runner, log logger.Logger) *Extractor {
	return &Extractor{runner: runner, logger: log}
}

func (e *Extractor) Extract(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx":
		return e.ooxml(path, "word/document.xml")
	case ".pptx":
		return e.ooxml(path, "ppt/slides/slide")
	case ".doc":
		return e.tool(ctx, path, "antiword", path)
	case ".rtf":
		return e.tool(ctx, path, "unrtf", "--text", "--nopict", path)
	default:
		return textenc.Content{}, &extractor.Error{
			Format: "office",
			Path:   path,
			Msg:    fmt.Sprintf("unsupported file type %q", ext),
		}
	}
}

// tool runs an external converter and hands its stdout to the decoder.
func (e *Extractor) tool(ctx context.Context, path, name string, args ...string) (textenc.Content, error) {
	if !shell.Installed(name) {
		return textenc.Content{}, &extractor.Error{
			Format: "office",
			Path:   path,
			Msg:    fmt.Sprintf("%s is not installed", name),
		}
	}

	res, err := e.runner.Run(ctx, name, args...)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "office",
			Path:   path,
			Msg:    name + " failed",
			Err:    err,
		}
	}

	return textenc.Bytes(res.Stdout), nil
}
