package loader

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/viant/sovereign/document"
)

// loadPDF extracts plain text page by page, so chunks can carry page numbers.
func loadPDF(_ context.Context, name string, data []byte) (src *document.Source, err error) {
	if len(data) == 0 {
		return &document.Source{}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("loader: parse pdf %s: %v", name, r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: parse pdf %s: %w", name, err)
	}
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("loader: extract pdf %s page %d: %w", name, i, err)
		}
		pages = append(pages, strings.TrimRight(text, " \n"))
	}
	return newSource(pages), nil
}
