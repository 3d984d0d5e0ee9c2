package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("ledger.csv"))
	assert.True(t, Supported("Budget.XLSX"))
	assert.True(t, Supported("old.xls"))
	assert.False(t, Supported("report.pdf"))
	assert.False(t, Supported("noextension"))
}

func TestDecodeCSV(t *testing.T) {
	src := "date,amount,type\n2024-01-01,100,income\n2024-01-02,50,expense\n"

	table, err := Decode("book.csv", strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "amount", "type"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-01-01", table.Rows[0][0].Text)
	assert.Equal(t, "50", table.Rows[1][1].Text)
}

func TestDecodeCSVWithBOM(t *testing.T) {
	src := "\ufeffالتاريخ,المبلغ\n2024-01-01,100\n"

	table, err := Decode("book.csv", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "التاريخ", table.Headers[0])
}

func TestDecodeCSVSemicolonDelimiter(t *testing.T) {
	src := "date;amount\n2024-01-01;1.234,50\n"

	table, err := Decode("book.csv", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "amount"}, table.Headers)
	assert.Equal(t, "1.234,50", table.Rows[0][1].Text)
}

func TestDecodeCSVTabDelimiter(t *testing.T) {
	src := "date\tamount\n2024-01-01\t100\n"

	table, err := Decode("book.csv", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "amount"}, table.Headers)
}

func TestDecodeCSVRaggedRows(t *testing.T) {
	src := "date,amount,type\n2024-01-01,100\n2024-01-02,50,expense,extra\n"

	table, err := Decode("book.csv", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[0], 2)
	assert.Len(t, table.Rows[1], 4)
}

func TestDecodeRejectsUnsupportedType(t *testing.T) {
	_, err := Decode("malware.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecodeRejectsEmptyFile(t *testing.T) {
	_, err := Decode("empty.csv", strings.NewReader("   \n  "))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDecodeRejectsOversizedFile(t *testing.T) {
	big := bytes.NewReader(make([]byte, MaxUploadBytes+1))
	_, err := Decode("big.csv", big)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDecodeExcel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Month", "Revenue", "Expenses"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Jan-24", 50000, 20000}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Feb-24", 55000, 21000}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode("pnl.xlsx", buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Month", "Revenue", "Expenses"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Jan-24", table.Rows[0][0].Text)
	assert.Equal(t, "50000", table.Rows[0][1].Text)
}

func TestDecodeExcelPrefersDataSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"wrong"}))
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]any{"date", "amount"}))
	require.NoError(t, f.SetSheetRow("Data", "A2", &[]any{"2024-01-01", 10}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode("book.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "amount"}, table.Headers)
}

func TestDecodeExcelNotAWorkbook(t *testing.T) {
	_, err := Decode("fake.xlsx", strings.NewReader("this is not a zip"))
	assert.Error(t, err)
}
