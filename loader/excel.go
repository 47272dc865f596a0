package loader

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/viant/sovereign/document"
)

// loadExcel renders every sheet as a page of tab separated rows, headed by the sheet name.
func loadExcel(_ context.Context, name string, data []byte) (*document.Source, error) {
	if len(data) == 0 {
		return &document.Source{}, nil
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loader: open xlsx %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	var pages []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("loader: read xlsx %s sheet %s: %w", name, sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		pages = append(pages, renderSheet(sheet, rows))
	}
	return newSource(pages), nil
}

func renderSheet(sheet string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("Sheet: ")
	b.WriteString(sheet)
	b.WriteString("\nHeader: ")
	b.WriteString(strings.Join(rows[0], "\t"))
	for i := 1; i < len(rows); i++ {
		b.WriteString("\nRow ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(strings.Join(rows[i], "\t"))
	}
	return b.String()
}
