package loader

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"

	"github.com/viant/sovereign/document"
)

// loadXLS renders legacy BIFF workbooks the same way as loadExcel.
func loadXLS(_ context.Context, name string, data []byte) (src *document.Source, err error) {
	if len(data) == 0 {
		return &document.Source{}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("loader: parse xls %s: %v", name, r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loader: open xls %s: %w", name, err)
	}
	var pages []string
	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		rows := sheet.GetRows()
		if len(rows) == 0 {
			continue
		}
		values := make([][]string, 0, len(rows))
		for _, row := range rows {
			values = append(values, xlsRowValues(row.GetCols()))
		}
		pages = append(pages, renderSheet(sheet.GetName(), values))
	}
	return newSource(pages), nil
}

func xlsRowValues(cols []structure.CellData) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		val := col.GetString()
		if val == "" {
			if num := col.GetFloat64(); num != 0 {
				val = strconv.FormatFloat(num, 'f', -1, 64)
			} else if in := col.GetInt64(); in != 0 {
				val = strconv.FormatInt(in, 10)
			}
		}
		out = append(out, val)
	}
	return out
}
