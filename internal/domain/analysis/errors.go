package analysis

import (
	"fmt"
	"strings"
)

// SchemaError reports that required canonical columns are missing after header
// normalization. It is user-facing and terminal for the request; the caller
// must not retry with the same input.
type SchemaError struct {
	Schema  Schema
	Missing []string
	Hints   []string // "did you mean" suggestions for near-miss headers
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Detail returns the Arabic message shown to the uploader.
func (e *SchemaError) Detail() string {
	if e.Schema == SchemaPnL {
		return fmt.Sprintf("ملف قائمة الدخل ناقص. لا يوجد أعمدة: %s", strings.Join(e.Missing, ", "))
	}
	return "الملف غير صالح للتحليل المالي. يرجى رفع ملف يحتوي على بيانات مالية بصيغة CSV أو Excel."
}

// EmptyDatasetError reports that every row was dropped during cleansing, so
// there is nothing left to analyze. User-facing and terminal.
type EmptyDatasetError struct {
	Schema Schema
}

func (e *EmptyDatasetError) Error() string {
	return "no valid rows remain after cleansing"
}

// Detail returns the Arabic message shown to the uploader.
func (e *EmptyDatasetError) Detail() string {
	if e.Schema == SchemaPnL {
		return "لم يتم العثور على تواريخ صالحة في ملف قائمة الدخل."
	}
	return "الملف غير صالح للتحليل المالي. يرجى رفع ملف يحتوي على بيانات مالية بصيغة CSV أو Excel."
}
