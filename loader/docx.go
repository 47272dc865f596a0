package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/viant/sovereign/document"
)

func loadDOCX(_ context.Context, name string, data []byte) (*document.Source, error) {
	if len(data) == 0 {
		return &document.Source{}, nil
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: open docx %s: %w", name, err)
	}
	var docFile *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, "word/document.xml") {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("loader: docx %s has no word/document.xml", name)
	}
	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("loader: open docx %s body: %w", name, err)
	}
	defer rc.Close()
	return &document.Source{Text: extractDOCXText(rc)}, nil
}

func extractDOCXText(r io.Reader) string {
	dec := xml.NewDecoder(r)
	var buf strings.Builder
	var lastWasNewline bool
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t", "instrText":
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					buf.WriteString(text)
					lastWasNewline = false
				}
			case "tab":
				buf.WriteByte('\t')
				lastWasNewline = false
			case "br", "cr":
				buf.WriteByte('\n')
				lastWasNewline = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p", "tr":
				if !lastWasNewline {
					buf.WriteByte('\n')
					lastWasNewline = true
				}
			case "tc":
				if !lastWasNewline {
					buf.WriteByte('\t')
				}
			}
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}
