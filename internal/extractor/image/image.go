// Package image extracts text from images via OCR. The "method" option
// selects the engine: "tesseract" (default, in-process via gosseract),
// "tesseract-cli" (the tesseract binary), or "textract" (AWS Textract).
package image

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/shell"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

type Extractor struct {
	runner *shell.Runner
	logger logger.Logger

	textractOnce sync.Once
	textract     *textractClient
	textractErr  error
}

func New(runner *shell.Runner, log logger.Logger) *Extractor {
	return &Extractor{runner: runner, logger: log}
}

func (e *Extractor) Extract(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	switch m := opts.Get("method"); m {
	case "", "tesseract":
		return e.gosseract(path, opts)
	case "tesseract-cli":
		return e.tesseractCLI(ctx, path, opts)
	case "textract":
		return e.awsTextract(ctx, path)
	default:
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    fmt.Sprintf("unsupported method %q", m),
		}
	}
}

// gosseract runs tesseract in-process. The image is preprocessed first;
// OCR accuracy on photographed documents depends on it.
func (e *Extractor) gosseract(path string, opts extractor.Options) (textenc.Content, error) {
	img, err := loadPreprocessed(path, opts)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "failed to load image",
			Err:    err,
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "failed to re-encode image",
			Err:    err,
		}
	}

	client := gosseract.NewClient()
	defer client.Close()

	if lang := opts.Get("lang"); lang != "" {
		if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
			return textenc.Content{}, &extractor.Error{
				Format: "image",
				Path:   path,
				Msg:    fmt.Sprintf("unsupported language %q", lang),
				Err:    err,
			}
		}
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "failed to set image",
			Err:    err,
		}
	}

	text, err := client.Text()
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "ocr failed",
			Err:    err,
		}
	}

	return textenc.Text(text), nil
}

// tesseractCLI shells out to the tesseract binary instead of linking it.
func (e *Extractor) tesseractCLI(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	if !shell.Installed("tesseract") {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "tesseract is not installed",
		}
	}

	lang := opts.Get("lang")
	if lang == "" {
		lang = "eng"
	}

	res, err := e.runner.Run(ctx, "tesseract", path, "stdout", "-l", lang)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "tesseract failed",
			Err:    err,
		}
	}

	return textenc.Text(string(res.Stdout)), nil
}
