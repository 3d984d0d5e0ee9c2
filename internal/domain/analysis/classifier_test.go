package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSchema(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    Schema
	}{
		{
			name:    "english pnl",
			headers: []string{"Month", "Revenue", "Expenses"},
			want:    SchemaPnL,
		},
		{
			name:    "arabic pnl",
			headers: []string{"الشهر", "الإيرادات", "المصروفات"},
			want:    SchemaPnL,
		},
		{
			name:    "substring match inside longer headers",
			headers: []string{"Reporting Period", "Monthly Sales (USD)", "Operating Costs"},
			want:    SchemaPnL,
		},
		{
			name:    "one header can satisfy two groups",
			headers: []string{"Monthly Revenue", "Opex"},
			want:    SchemaPnL,
		},
		{
			name:    "ledger headers",
			headers: []string{"Date", "Amount", "Type", "Category"},
			want:    SchemaTransactions,
		},
		{
			name:    "two of three groups is not enough",
			headers: []string{"Month", "Revenue"},
			want:    SchemaTransactions,
		},
		{
			name:    "ambiguous sheet classifies as pnl",
			headers: []string{"Date", "Amount", "Month", "Revenue", "Expenses"},
			want:    SchemaPnL,
		},
		{
			name:    "no headers",
			headers: nil,
			want:    SchemaTransactions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSchema(RawTable{Headers: tt.headers})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstHeaderInGroupSkipsClaimed(t *testing.T) {
	headers := []string{"Monthly Revenue", "Sales", "Costs"}

	claimed := map[int]bool{}
	monthCol := firstHeaderInGroup(headers, groupMonth, claimed)
	assert.Equal(t, 0, monthCol)
	claimed[monthCol] = true

	// "Monthly Revenue" also matches the revenue group but is already
	// claimed by the month group, so "Sales" takes it.
	revenueCol := firstHeaderInGroup(headers, groupRevenue, claimed)
	assert.Equal(t, 1, revenueCol)
	claimed[revenueCol] = true

	expensesCol := firstHeaderInGroup(headers, groupExpense, claimed)
	assert.Equal(t, 2, expensesCol)
}
