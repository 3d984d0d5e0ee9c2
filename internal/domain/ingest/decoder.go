// Package ingest decodes uploaded spreadsheet files (CSV and Excel) into the
// generic table structure consumed by the analysis pipeline. It detects CSV
// delimiters, strips byte-order marks and enforces the upload type and size
// limits. Decoding never interprets values; cells are handed over as text.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
)

// MaxUploadBytes caps the accepted upload size at 10 MiB.
const MaxUploadBytes = 10 << 20

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrNoHeader        = errors.New("could not read a header row")
)

// allowedExtensions whitelists upload types by filename extension,
// lower-cased, dot included.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// Supported reports whether the filename carries an accepted extension.
func Supported(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Decode reads an upload and produces a raw table. The reader is consumed up
// to the size limit; anything beyond it fails the upload rather than being
// silently truncated.
func Decode(filename string, r io.Reader) (analysis.RawTable, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return analysis.RawTable{}, ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return analysis.RawTable{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return analysis.RawTable{}, ErrFileTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return analysis.RawTable{}, ErrEmptyFile
	}

	if ext == ".csv" {
		return decodeCSV(data)
	}
	return decodeExcel(data)
}
