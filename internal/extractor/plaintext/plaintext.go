// Package plaintext handles formats that already are text on disk.
package plaintext

import (
	"context"
	"os"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

type Extractor struct {
	logger logger.Logger
}

func New(log logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

// Extract reads the file as-is. The bytes go to the decoder untouched so
// charset detection still applies to text files in legacy encodings.
func (e *Extractor) Extract(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "text",
			Path:   path,
			Msg:    "failed to read file",
			Err:    err,
		}
	}
	return textenc.Bytes(b), nil
}
