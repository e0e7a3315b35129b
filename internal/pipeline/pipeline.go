// Package pipeline wires extractor selection and the decode/encode steps
// into the single entry point the service and CLI call.
package pipeline

import (
	"context"

	"github.com/feichai0017/text-extractor/internal/extractor"
	htmlx "github.com/feichai0017/text-extractor/internal/extractor/html"
	imagex "github.com/feichai0017/text-extractor/internal/extractor/image"
	"github.com/feichai0017/text-extractor/internal/extractor/office"
	"github.com/feichai0017/text-extractor/internal/extractor/pdf"
	"github.com/feichai0017/text-extractor/internal/extractor/plaintext"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/shell"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

// Pipeline runs extract → decode → encode for one file per call. A
// Pipeline holds no per-call state and may be shared across goroutines
// processing distinct files.
type Pipeline struct {
	registry *extractor.Registry
	logger   logger.Logger
}

// New builds a pipeline with the default extractor table. The table is
// resolved once here, not re-checked per call.
func New(log logger.Logger) *Pipeline {
	runner := shell.NewRunner(log)

	reg := extractor.NewRegistry(log)
	reg.Register(plaintext.New(log),
		".txt", ".md", ".log", ".csv", ".json", ".yaml", ".yml", ".xml")
	reg.Register(pdf.New(runner, log), ".pdf")
	reg.Register(office.New(runner, log), ".docx", ".pptx", ".doc", ".rtf")
	reg.Register(imagex.New(runner, log),
		".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp")
	reg.Register(htmlx.New(log), ".html", ".htm")

	return &Pipeline{registry: reg, logger: log}
}

// NewWithRegistry builds a pipeline over a caller-supplied extractor table.
func NewWithRegistry(reg *extractor.Registry, log logger.Logger) *Pipeline {
	return &Pipeline{registry: reg, logger: log}
}

// Process extracts text from the file at path and returns it encoded in
// targetEncoding. The stages run in a fixed order (select, extract,
// decode, encode) and any stage failure surfaces unchanged; there is no
// partial output. Between the boundaries all text is UTF-8: unknown input
// bytes are decoded immediately after extraction and re-encoded only here
// at the output edge.
func (p *Pipeline) Process(ctx context.Context, path, targetEncoding string, opts extractor.Options) ([]byte, error) {
	if targetEncoding == "" {
		targetEncoding = textenc.DefaultEncoding
	}

	ext, err := p.registry.ForFile(path)
	if err != nil {
		return nil, err
	}

	raw, err := ext.Extract(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	text, err := textenc.Decode(raw)
	if err != nil {
		return nil, err
	}

	out, err := textenc.Encode(text, targetEncoding)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Extraction complete",
		logger.String("file", path),
		logger.String("encoding", targetEncoding),
		logger.Int("bytes", len(out)),
	)

	return out, nil
}
