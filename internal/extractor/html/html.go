// Package html extracts visible text from HTML documents.
package html

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	xhtml "golang.org/x/net/html"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

// blockTags end a line of visible text when they close.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
}

// skipTags contain no visible text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true,
	"iframe": true, "object": true,
}

type Extractor struct {
	logger logger.Logger
}

func New(log logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

// Extract tokenizes the markup and collects text nodes outside script and
// style subtrees. The collected bytes keep the document's own encoding;
// charset detection happens downstream.
func (e *Extractor) Extract(ctx context.Context, path string, opts extractor.Options) (textenc.Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "html",
			Path:   path,
			Msg:    "failed to open file",
			Err:    err,
		}
	}
	defer f.Close()

	var buf bytes.Buffer
	skipDepth := 0

	z := xhtml.NewTokenizer(f)
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			// io.EOF terminates; the tokenizer recovers from malformed
			// markup on its own, so any other error is a read failure.
			if errors.Is(z.Err(), io.EOF) {
				return textenc.Bytes(buf.Bytes()), nil
			}
			return textenc.Content{}, &extractor.Error{
				Format: "html",
				Path:   path,
				Msg:    "failed to read file",
				Err:    z.Err(),
			}
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			if skipTags[string(name)] {
				skipDepth++
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if skipTags[string(name)] && skipDepth > 0 {
				skipDepth--
			}
			if blockTags[string(name)] && skipDepth == 0 {
				buf.WriteByte('\n')
			}
		case xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" && skipDepth == 0 {
				buf.WriteByte('\n')
			}
		case xhtml.TextToken:
			if skipDepth == 0 {
				buf.Write(z.Text())
			}
		}
	}
}
