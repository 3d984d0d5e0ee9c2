package analysis

import (
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan-api/internal/domain/analysis/lexicon"
)

// LedgerRow is one retained transaction after validation. Date and Amount are
// always present and valid; Type and Category are optional raw strings.
type LedgerRow struct {
	Date     time.Time
	Amount   decimal.Decimal
	Type     string
	Category string
}

// PnLRow is one retained monthly P&L row after validation.
type PnLRow struct {
	Date     time.Time
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
}

// LedgerData is the canonical ledger dataset, sorted ascending by date. Sort
// order is a precondition for the monthly delta logic downstream.
type LedgerData struct {
	Rows        []LedgerRow
	HasType     bool
	HasCategory bool
}

// PnLData is the canonical P&L dataset, sorted ascending by date.
type PnLData struct {
	Rows []PnLRow
}

// ParseLedger validates and coerces a transaction-ledger table.
//
// Headers are normalized first; canonical date and amount columns are
// required. Rows whose date or amount cannot be parsed are dropped, never
// repaired. Returns *SchemaError when required columns are missing and
// *EmptyDatasetError when no valid rows remain.
func ParseLedger(table RawTable) (*LedgerData, error) {
	headers := NormalizeColumns(table.Headers)
	normalized := RawTable{Headers: headers, Rows: table.Rows}

	dateCol := normalized.ColumnIndex(lexicon.ColDate)
	amountCol := normalized.ColumnIndex(lexicon.ColAmount)

	var missing []string
	if dateCol < 0 {
		missing = append(missing, lexicon.ColDate)
	}
	if amountCol < 0 {
		missing = append(missing, lexicon.ColAmount)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{
			Schema:  SchemaTransactions,
			Missing: missing,
			Hints:   headerHints(missing, table.Headers),
		}
	}

	typeCol := normalized.ColumnIndex(lexicon.ColType)
	categoryCol := normalized.ColumnIndex(lexicon.ColCategory)

	rows := make([]LedgerRow, 0, len(table.Rows))
	for i := range table.Rows {
		date, ok := ParseDate(normalized.CellAt(i, dateCol))
		if !ok {
			continue
		}
		amount, ok := CleanAmount(normalized.CellAt(i, amountCol))
		if !ok {
			continue
		}
		row := LedgerRow{Date: date, Amount: amount}
		if typeCol >= 0 {
			row.Type = cellString(normalized.CellAt(i, typeCol))
		}
		if categoryCol >= 0 {
			row.Category = cellString(normalized.CellAt(i, categoryCol))
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &EmptyDatasetError{Schema: SchemaTransactions}
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Date.Before(rows[b].Date) })

	return &LedgerData{
		Rows:        rows,
		HasType:     typeCol >= 0,
		HasCategory: categoryCol >= 0,
	}, nil
}

// ParsePnL validates and coerces a periodic P&L table.
//
// Headers are mapped onto canonical month/revenue/expenses by keyword
// substring match: the first column matching a group claims the canonical
// name, and a claimed column is never reassigned. All three canonical columns
// are required. Month labels go through the fallback chain in ParseMonth.
func ParsePnL(table RawTable) (*PnLData, error) {
	claimed := make(map[int]bool, len(table.Headers))
	monthCol := firstHeaderInGroup(table.Headers, groupMonth, claimed)
	if monthCol >= 0 {
		claimed[monthCol] = true
	}
	revenueCol := firstHeaderInGroup(table.Headers, groupRevenue, claimed)
	if revenueCol >= 0 {
		claimed[revenueCol] = true
	}
	expensesCol := firstHeaderInGroup(table.Headers, groupExpense, claimed)

	var missing []string
	if monthCol < 0 {
		missing = append(missing, lexicon.ColMonth)
	}
	if revenueCol < 0 {
		missing = append(missing, lexicon.ColRevenue)
	}
	if expensesCol < 0 {
		missing = append(missing, lexicon.ColExpenses)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{
			Schema:  SchemaPnL,
			Missing: missing,
			Hints:   headerHints(missing, table.Headers),
		}
	}

	rows := make([]PnLRow, 0, len(table.Rows))
	for i := range table.Rows {
		date, ok := ParseMonth(table.CellAt(i, monthCol))
		if !ok {
			continue
		}
		revenue, ok := CleanAmount(table.CellAt(i, revenueCol))
		if !ok {
			continue
		}
		expenses, ok := CleanAmount(table.CellAt(i, expensesCol))
		if !ok {
			continue
		}
		rows = append(rows, PnLRow{Date: date, Revenue: revenue, Expenses: expenses})
	}

	if len(rows) == 0 {
		return nil, &EmptyDatasetError{Schema: SchemaPnL}
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Date.Before(rows[b].Date) })

	return &PnLData{Rows: rows}, nil
}

// headerHints suggests near-miss headers for missing canonical columns so the
// schema error can tell the uploader what the file probably meant.
func headerHints(missing, headers []string) []string {
	var hints []string
	for _, want := range missing {
		ranks := fuzzy.RankFindNormalizedFold(want, headers)
		if len(ranks) == 0 {
			continue
		}
		sort.Sort(ranks)
		hints = append(hints, ranks[0].Target)
	}
	return hints
}

func cellString(c Cell) string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Number.String()
	default:
		return ""
	}
}
