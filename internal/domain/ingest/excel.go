package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
)

// Sheet names tried before falling back to the workbook's first sheet.
var preferredSheets = []string{"data", "sheet1", "البيانات"}

// decodeExcel parses an Excel workbook. One sheet is analyzed per upload: a
// preferred sheet name when present, otherwise the first sheet. The first
// non-empty row is the header row.
func decodeExcel(data []byte) (analysis.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return analysis.RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := pickSheet(f)
	if sheet == "" {
		return analysis.RawTable{}, ErrEmptyFile
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return analysis.RawTable{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var table analysis.RawTable
	for _, record := range rows {
		if table.Headers == nil {
			if rowBlank(record) {
				continue
			}
			headers := make([]string, len(record))
			for i, h := range record {
				headers[i] = strings.TrimSpace(h)
			}
			table.Headers = headers
			continue
		}

		row := make([]analysis.Cell, len(record))
		for i, v := range record {
			row[i] = analysis.TextCell(v)
		}
		table.Rows = append(table.Rows, row)
	}

	if table.Headers == nil {
		return analysis.RawTable{}, ErrNoHeader
	}
	return table, nil
}

func pickSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	for _, preferred := range preferredSheets {
		for _, sheet := range sheets {
			if strings.EqualFold(sheet, preferred) {
				return sheet
			}
		}
	}
	return sheets[0]
}

func rowBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
