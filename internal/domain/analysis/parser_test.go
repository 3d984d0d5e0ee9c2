package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanhq/mizan-api/internal/domain/analysis/lexicon"
)

func textRow(vals ...string) []Cell {
	row := make([]Cell, len(vals))
	for i, v := range vals {
		row[i] = TextCell(v)
	}
	return row
}

func TestParseLedgerDropsInvalidRows(t *testing.T) {
	table := RawTable{
		Headers: []string{"Date", "Value", "Type", "Category"},
		Rows: [][]Cell{
			textRow("2024-01-10", "$1,000", "income", "sales"),
			textRow("not a date", "500", "expense", "rent"),
			textRow("2024-01-12", "abc", "expense", "rent"),
			textRow("2024-01-15", "300", "expense", "rent"),
			textRow("2024-02-01", "ر.س 2,500", "income", "sales"),
		},
	}

	data, err := ParseLedger(table)
	require.NoError(t, err)

	require.Len(t, data.Rows, 3)
	assert.True(t, data.HasType)
	assert.True(t, data.HasCategory)

	assert.Equal(t, "1000", data.Rows[0].Amount.String())
	assert.Equal(t, "300", data.Rows[1].Amount.String())
	assert.Equal(t, "2500", data.Rows[2].Amount.String())
}

func TestParseLedgerSortsAscending(t *testing.T) {
	table := RawTable{
		Headers: []string{"date", "amount"},
		Rows: [][]Cell{
			textRow("2024-03-01", "30"),
			textRow("2024-01-01", "10"),
			textRow("2024-02-01", "20"),
		},
	}

	data, err := ParseLedger(table)
	require.NoError(t, err)
	require.Len(t, data.Rows, 3)

	for i := 1; i < len(data.Rows); i++ {
		assert.True(t, data.Rows[i-1].Date.Before(data.Rows[i].Date))
	}
	assert.False(t, data.HasType)
	assert.False(t, data.HasCategory)
}

func TestParseLedgerMissingColumns(t *testing.T) {
	table := RawTable{
		Headers: []string{"datee", "branch"},
		Rows:    [][]Cell{textRow("2024-01-01", "x")},
	}

	_, err := ParseLedger(table)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, SchemaTransactions, schemaErr.Schema)
	assert.Equal(t, []string{lexicon.ColDate, lexicon.ColAmount}, schemaErr.Missing)
	assert.Contains(t, schemaErr.Hints, "datee")
	assert.NotEmpty(t, schemaErr.Detail())
}

func TestParseLedgerEmptyAfterCleansing(t *testing.T) {
	table := RawTable{
		Headers: []string{"date", "amount"},
		Rows: [][]Cell{
			textRow("garbage", "100"),
			textRow("2024-01-01", "garbage"),
		},
	}

	_, err := ParseLedger(table)

	var emptyErr *EmptyDatasetError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, SchemaTransactions, emptyErr.Schema)
}

func TestParseLedgerRaggedRows(t *testing.T) {
	table := RawTable{
		Headers: []string{"date", "amount", "type"},
		Rows: [][]Cell{
			textRow("2024-01-01", "100"), // type cell missing entirely
		},
	}

	data, err := ParseLedger(table)
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	assert.Empty(t, data.Rows[0].Type)
}

func TestParsePnL(t *testing.T) {
	table := RawTable{
		Headers: []string{"Month", "Revenue", "Expenses"},
		Rows: [][]Cell{
			textRow("Feb-24", "12,000", "9,000"),
			textRow("Jan-24", "10,000", "8,000"),
			textRow("??", "1", "1"),
		},
	}

	data, err := ParsePnL(table)
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)

	assert.Equal(t, time.January, data.Rows[0].Date.Month())
	assert.Equal(t, "10000", data.Rows[0].Revenue.String())
	assert.Equal(t, time.February, data.Rows[1].Date.Month())
	assert.Equal(t, "9000", data.Rows[1].Expenses.String())
}

func TestParsePnLArabicHeaders(t *testing.T) {
	table := RawTable{
		Headers: []string{"الشهر", "الإيرادات", "المصروفات"},
		Rows: [][]Cell{
			textRow("2024-01", "5000", "3000"),
		},
	}

	data, err := ParsePnL(table)
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "2000", data.Rows[0].Revenue.Sub(data.Rows[0].Expenses).String())
}

func TestParsePnLMissingColumns(t *testing.T) {
	table := RawTable{
		Headers: []string{"Month", "Revenue"},
		Rows:    [][]Cell{textRow("Jan-24", "10")},
	}

	_, err := ParsePnL(table)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, SchemaPnL, schemaErr.Schema)
	assert.Equal(t, []string{lexicon.ColExpenses}, schemaErr.Missing)
	assert.Contains(t, schemaErr.Detail(), lexicon.ColExpenses)
}

func TestParsePnLNoValidDates(t *testing.T) {
	table := RawTable{
		Headers: []string{"Month", "Revenue", "Expenses"},
		Rows:    [][]Cell{textRow("Q1", "10", "5")},
	}

	_, err := ParsePnL(table)

	var emptyErr *EmptyDatasetError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, SchemaPnL, emptyErr.Schema)
}

func TestParseLedgerBulk(t *testing.T) {
	gofakeit.Seed(11)

	rows := make([][]Cell, 0, 200)
	for i := 0; i < 200; i++ {
		day := time.Date(2024, time.Month(1+i%6), 1+i%28, 0, 0, 0, 0, time.UTC)
		rows = append(rows, textRow(
			day.Format("2006-01-02"),
			fmt.Sprintf("%.2f", gofakeit.Price(10, 5000)),
			gofakeit.RandomString([]string{"income", "expense"}),
			gofakeit.RandomString([]string{"rent", "salaries", "marketing", "supplies"}),
		))
	}

	data, err := ParseLedger(RawTable{
		Headers: []string{"date", "amount", "type", "category"},
		Rows:    rows,
	})
	require.NoError(t, err)
	assert.Len(t, data.Rows, 200)

	ds := BuildLedgerDataset(data)
	assert.Equal(t, 6, len(ds.Buckets))
	assert.True(t, ds.HasCategories)
	assert.NotEmpty(t, ds.CategoryExpenses)
}
