// Package pdf extracts text from PDF documents. Three sub-methods are
// supported via the "method" option: "pdftotext" (default, poppler CLI),
// "native" (pure-Go parsing), and "ocr" (rasterize + tesseract, for
// scanned documents with no text layer).
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"

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
	switch m := opts.Get("method"); m {
	case "", "pdftotext":
		return e.pdftotext(ctx, path, opts)
	case "native":
		return e.native(path)
	case "ocr":
		return e.ocr(ctx, path, opts)
	default:
		return textenc.Content{}, &extractor.Error{
			Format: "pdf",
			Path:   path,
			Msg:    fmt.Sprintf("unsupported method %q", m),
		}
	}
}

// pdftotext shells out to poppler. Output goes to stdout ("-"), captured
// as bytes; the encoding is whatever poppler emitted, left to the decoder.
func (e *Extractor) pdftotext(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	if !shell.Installed("pdftotext") {
		return textenc.Content{}, &extractor.Error{
			Format: "pdf",
			Path:   path,
			Msg:    "pdftotext is not installed",
		}
	}

	args := make([]string, 0, 4)
	if opts.Bool("layout") {
		args = append(args, "-layout")
	}
	args = append(args, path, "-")

	res, err := e.runner.Run(ctx, "pdftotext", args...)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "pdf",
			Path:   path,
			Msg:    "pdftotext failed",
			Err:    err,
		}
	}

	return textenc.Bytes(res.Stdout), nil
}

// native parses the document in-process and concatenates the text layer of
// every page.
func (e *Extractor) native(path string) (textenc.Content, error) {
	f, reader, err := ledongthuc.Open(path)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "pdf",
			Path:   path,
			Msg:    "failed to open document",
			Err:    err,
		}
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return textenc.Content{}, &extractor.Error{
				Format: "pdf",
				Path:   path,
				Msg:    fmt.Sprintf("failed to read page %d", i),
				Err:    err,
			}
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	return textenc.Text(sb.String()), nil
}

// ocr rasterizes the document into per-page images inside a scratch
// directory and runs tesseract over each page. The scratch directory is
// removed on every exit path.
func (e *Extractor) ocr(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	for _, tool := range []string{"pdftoppm", "tesseract"} {
		if !shell.Installed(tool) {
			return textenc.Content{}, &extractor.Error{
				Format: "pdf",
				Path:   path,
				Msg:    fmt.Sprintf("%s is not installed", tool),
			}
		}
	}

	dir, cleanup, err := shell.TempDir("pdf-ocr-*")
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "pdf",
			Path:   path,
			Msg:    "failed to create scratch directory",
			Err:    err,
		}
	}
	defer cleanup()

	prefix := filepath.Join(dir, "page")
	if _, err := e.runner.Run(ctx, "pdftoppm", "-r", "300", "-png", path, prefix); err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "pdf",
			Path:   path,
			Msg:    "pdftoppm failed",
			Err:    err,
		}
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(pages) == 0 {
		return textenc.Content{}, &extractor.Error{
			Format: "pdf",
			Path:   path,
			Msg:    "document produced no pages",
			Err:    err,
		}
	}
	sort.Strings(pages)

	lang := opts.Get("lang")
	if lang == "" {
		lang = "eng"
	}

	var sb strings.Builder
	for _, page := range pages {
		res, err := e.runner.Run(ctx, "tesseract", page, "stdout", "-l", lang)
		if err != nil {
			return textenc.Content{}, &extractor.Error{
				Format: "pdf",
				Path:   path,
				Msg:    "tesseract failed",
				Err:    err,
			}
		}
		sb.Write(res.Stdout)
	}

	e.logger.Debug("OCR complete",
		logger.String("file", path),
		logger.Int("pages", len(pages)),
	)

	// tesseract emits UTF-8 on stdout
	return textenc.Text(sb.String()), nil
}
