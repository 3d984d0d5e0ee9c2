package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
)

// Delimiters probed on the header line, most common first.
var csvDelimiters = []rune{',', ';', '\t', '|'}

// decodeCSV parses a delimited text file. The delimiter is sniffed from the
// first non-blank line; the first record is the header row and everything
// after it is data. Ragged records are tolerated, quoting is lazy.
func decodeCSV(data []byte) (analysis.RawTable, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	delimiter := detectDelimiter(firstLine(data))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var table analysis.RawTable
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return analysis.RawTable{}, fmt.Errorf("parse csv: %w", err)
		}

		if table.Headers == nil {
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

// detectDelimiter picks the delimiter occurring most often in the header
// line, defaulting to a comma for single-column files.
func detectDelimiter(line string) rune {
	best := ','
	bestCount := 0
	for _, d := range csvDelimiters {
		if count := strings.Count(line, string(d)); count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}

func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	return strings.TrimRight(string(data), "\r")
}
