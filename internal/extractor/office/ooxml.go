package office

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

// ooxml opens the zip container and extracts the text runs of every part
// whose name starts with partPrefix ("word/document.xml" for .docx, the
// slide parts for .pptx). OOXML part content is always UTF-8 XML, so the
// result is returned as decoded text.
func (e *Extractor) ooxml(path, partPrefix string) (textenc.Content, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "office",
			Path:   path,
			Msg:    "failed to open container",
			Err:    err,
		}
	}
	defer zr.Close()

	var parts []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, partPrefix) && strings.HasSuffix(f.Name, ".xml") {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return textenc.Content{}, &extractor.Error{
			Format: "office",
			Path:   path,
			Msg:    "no document part found in container",
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })

	var sb strings.Builder
	for _, part := range parts {
		rc, err := part.Open()
		if err != nil {
			return textenc.Content{}, &extractor.Error{
				Format: "office",
				Path:   path,
				Msg:    "failed to open part " + part.Name,
				Err:    err,
			}
		}
		err = scanXMLText(rc, &sb)
		rc.Close()
		if err != nil {
			return textenc.Content{}, &extractor.Error{
				Format: "office",
				Path:   path,
				Msg:    "malformed part " + part.Name,
				Err:    err,
			}
		}
	}

	return textenc.Text(sb.String()), nil
}

// scanXMLText collects character data inside <w:t>/<a:t> runs and turns
// paragraph boundaries into newlines.
func scanXMLText(r io.Reader, sb *strings.Builder) error {
	dec := xml.NewDecoder(r)
	inRun := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				sb.Write(t)
			}
		}
	}
}
