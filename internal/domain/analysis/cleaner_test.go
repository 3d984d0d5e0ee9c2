package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
		ok   bool
	}{
		{name: "plain number text", cell: TextCell("1234.50"), want: "1234.5", ok: true},
		{name: "dollar with thousands separator", cell: TextCell("$1,234.50"), want: "1234.5", ok: true},
		{name: "euro", cell: TextCell("€99"), want: "99", ok: true},
		{name: "pound", cell: TextCell("£250.75"), want: "250.75", ok: true},
		{name: "riyal latin code", cell: TextCell("SAR 5000"), want: "5000", ok: true},
		{name: "riyal arabic", cell: TextCell("ر.س 1500"), want: "1500", ok: true},
		{name: "negative", cell: TextCell("-2,000"), want: "-2000", ok: true},
		{name: "surrounding whitespace", cell: TextCell("  42  "), want: "42", ok: true},
		{name: "not a number", cell: TextCell("abc"), ok: false},
		{name: "symbols only", cell: TextCell("$,"), ok: false},
		{name: "empty cell", cell: Cell{Kind: CellEmpty}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanAmount(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestCleanAmountNumericPassthrough(t *testing.T) {
	d := decimal.NewFromFloat(987.65)
	got, ok := CleanAmount(NumberCell(d))
	require.True(t, ok)
	assert.True(t, got.Equal(d))
}
