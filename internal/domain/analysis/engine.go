package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan-api/internal/domain/analysis/lexicon"
)

// MonthlyBucket aggregates one calendar month. Derived per analysis, never
// persisted.
type MonthlyBucket struct {
	Month    time.Time
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// CategoryExpense is the absolute expense total attributed to one category.
type CategoryExpense struct {
	Name   string
	Amount decimal.Decimal
}

// Dataset is the canonical monthly input of the KPI engine. Both schema paths
// produce one; the engine itself is schema-agnostic except for the category
// dimension, which only the ledger path can supply.
type Dataset struct {
	Buckets       []MonthlyBucket
	HasCategories bool
	// CategoryExpenses holds per-category absolute expense totals, sorted
	// descending. Only the top category feeds the concentration rule.
	CategoryExpenses []CategoryExpense
}

// KPIRecord is one formatted KPI slot.
type KPIRecord struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Delta   string `json:"delta"`
	Insight string `json:"insight"`
}

// Result is the structured analytics output handed to the narrative and
// report collaborators.
type Result struct {
	KPIs            []KPIRecord `json:"kpis"`
	Risks           []string    `json:"risks"`
	Recommendations []string    `json:"recommendations"`
	MonthlyCount    int         `json:"monthly_count"`

	// HasCriticalRisk is true when any non-fallback risk fired.
	HasCriticalRisk bool `json:"-"`
}

// typeClass is the normalized direction of a transaction's type cell.
type typeClass int

const (
	typeUnknown typeClass = iota
	typeIncome
	typeExpense
)

func classifyType(raw string) typeClass {
	t := strings.ToLower(strings.TrimSpace(raw))
	if containsToken(lexicon.IncomeTypeTokens, t) {
		return typeIncome
	}
	if containsToken(lexicon.ExpenseTypeTokens, t) {
		return typeExpense
	}
	return typeUnknown
}

// BuildLedgerDataset derives signed amounts, buckets transactions by calendar
// month and accumulates per-category expense totals.
//
// When a type column exists the row's type string decides the sign: income
// rows contribute +|amount|, expense rows −|amount|, unknown rows keep the raw
// amount. Without a type column the raw amount is assumed to already encode
// direction.
func BuildLedgerDataset(data *LedgerData) Dataset {
	byMonth := make(map[time.Time]*MonthlyBucket)
	byCategory := make(map[string]decimal.Decimal)

	for _, row := range data.Rows {
		signed := row.Amount
		if data.HasType {
			switch classifyType(row.Type) {
			case typeIncome:
				signed = row.Amount.Abs()
			case typeExpense:
				signed = row.Amount.Abs().Neg()
			}
		}

		m := monthOf(row.Date)
		b, ok := byMonth[m]
		if !ok {
			b = &MonthlyBucket{Month: m}
			byMonth[m] = b
		}
		if signed.IsPositive() {
			b.Revenue = b.Revenue.Add(signed)
		} else if signed.IsNegative() {
			b.Expenses = b.Expenses.Add(signed.Abs())
		}
		b.Net = b.Net.Add(signed)

		if data.HasCategory && signed.IsNegative() && strings.TrimSpace(row.Category) != "" {
			byCategory[row.Category] = byCategory[row.Category].Add(signed.Abs())
		}
	}

	buckets := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(a, b int) bool { return buckets[a].Month.Before(buckets[b].Month) })

	categories := make([]CategoryExpense, 0, len(byCategory))
	for name, amount := range byCategory {
		categories = append(categories, CategoryExpense{Name: name, Amount: amount})
	}
	sort.Slice(categories, func(a, b int) bool {
		if !categories[a].Amount.Equal(categories[b].Amount) {
			return categories[a].Amount.GreaterThan(categories[b].Amount)
		}
		return categories[a].Name < categories[b].Name
	})

	return Dataset{
		Buckets:          buckets,
		HasCategories:    data.HasCategory,
		CategoryExpenses: categories,
	}
}

// BuildPnLDataset lifts pre-aggregated monthly rows into buckets. Rows
// sharing a month are summed. No category dimension exists on this path.
func BuildPnLDataset(data *PnLData) Dataset {
	byMonth := make(map[time.Time]*MonthlyBucket)
	for _, row := range data.Rows {
		m := monthOf(row.Date)
		b, ok := byMonth[m]
		if !ok {
			b = &MonthlyBucket{Month: m}
			byMonth[m] = b
		}
		b.Revenue = b.Revenue.Add(row.Revenue)
		b.Expenses = b.Expenses.Add(row.Expenses)
		b.Net = b.Net.Add(row.Revenue.Sub(row.Expenses))
	}

	buckets := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(a, b int) bool { return buckets[a].Month.Before(buckets[b].Month) })

	return Dataset{Buckets: buckets}
}

// deltas holds the period-over-period changes between the two most recent
// buckets. All pointers are nil when fewer than two buckets exist.
type deltas struct {
	revenue *float64 // percent
	expense *float64 // percent
	net     *float64 // percent
	margin  *float64 // percentage points
}

func computeDeltas(buckets []MonthlyBucket) deltas {
	if len(buckets) < 2 {
		return deltas{}
	}
	last := buckets[len(buckets)-1]
	prev := buckets[len(buckets)-2]

	rev := pctChange(last.Revenue, prev.Revenue, prev.Revenue.IsPositive())
	exp := pctChange(last.Expenses, prev.Expenses, prev.Expenses.IsPositive())
	net := pctChange(last.Net, prev.Net, !prev.Net.IsZero())

	marginDelta := monthMargin(last) - monthMargin(prev)

	return deltas{revenue: &rev, expense: &exp, net: &net, margin: &marginDelta}
}

// pctChange returns (last − prev) / |prev| × 100, guarded to 0 when the
// denominator condition does not hold. The guard is a division-by-zero
// policy, not an error.
func pctChange(last, prev decimal.Decimal, denomOK bool) float64 {
	if !denomOK {
		return 0
	}
	return last.Sub(prev).Div(prev.Abs()).InexactFloat64() * 100
}

// monthMargin is a single bucket's net-over-revenue margin in percent, 0 when
// the bucket has no positive revenue.
func monthMargin(b MonthlyBucket) float64 {
	if !b.Revenue.IsPositive() {
		return 0
	}
	return b.Net.Div(b.Revenue).InexactFloat64() * 100
}

// risk is an internal detection carrying its symbolic kind next to the
// rendered sentence, so recommendations are derived from the kind.
type risk struct {
	Kind     lexicon.RiskKind
	Text     string
	Category string // dominant category, concentration risk only
}

// Analyze computes the six KPI slots, risk flags and recommendations for a
// canonical monthly dataset. It is the single engine behind both schema
// variants; the category concentration rule only participates when the
// dataset carries a category dimension.
func Analyze(ds Dataset) *Result {
	totalRevenue := decimal.Zero
	totalExpenses := decimal.Zero
	for _, b := range ds.Buckets {
		totalRevenue = totalRevenue.Add(b.Revenue)
		totalExpenses = totalExpenses.Add(b.Expenses)
	}
	netProfit := totalRevenue.Sub(totalExpenses)

	profitMargin := 0.0
	if totalRevenue.IsPositive() {
		profitMargin = netProfit.Div(totalRevenue).InexactFloat64() * 100
	}

	d := computeDeltas(ds.Buckets)

	avgExpenses := decimal.Zero
	if n := len(ds.Buckets); n > 0 {
		sum := decimal.Zero
		for _, b := range ds.Buckets {
			sum = sum.Add(b.Expenses)
		}
		avgExpenses = sum.Div(decimal.NewFromInt(int64(n)))
	}

	highestExpense := decimal.Zero
	highestLabel := "N/A"
	for _, b := range ds.Buckets {
		if b.Expenses.GreaterThan(highestExpense) || highestLabel == "N/A" {
			highestExpense = b.Expenses
			highestLabel = b.Month.Format("2006-01")
		}
	}

	kpis := []KPIRecord{
		{
			Name:    lexicon.KPITotalRevenue,
			Value:   formatMoney(totalRevenue),
			Delta:   formatPercentDelta(d.revenue),
			Insight: revenueInsight(d.revenue),
		},
		{
			Name:    lexicon.KPITotalExpenses,
			Value:   formatMoney(totalExpenses),
			Delta:   formatPercentDelta(d.expense),
			Insight: expenseInsight(d.expense),
		},
		{
			Name:    lexicon.KPINetProfit,
			Value:   formatMoney(netProfit),
			Delta:   formatPercentDelta(d.net),
			Insight: netInsight(netProfit, d.net),
		},
		{
			Name:    lexicon.KPIProfitMargin,
			Value:   formatPercentValue(profitMargin),
			Delta:   formatPointDelta(d.margin),
			Insight: marginInsight(profitMargin),
		},
		{
			Name:    lexicon.KPIAvgExpenses,
			Value:   formatMoney(avgExpenses),
			Delta:   lexicon.DeltaMonthly,
			Insight: lexicon.InsightAvgExpenses,
		},
		{
			Name:    lexicon.KPIHighestExpense,
			Value:   formatMoney(highestExpense),
			Delta:   highestLabel,
			Insight: lexicon.InsightHighestExpense,
		},
	}

	risks := detectRisks(ds, profitMargin, d, totalExpenses)

	result := &Result{
		KPIs:         kpis,
		MonthlyCount: len(ds.Buckets),
	}
	for _, r := range risks {
		result.Risks = append(result.Risks, r.Text)
		if r.Kind != lexicon.RiskNone {
			result.HasCriticalRisk = true
		}
	}
	result.Recommendations = recommend(risks)
	return result
}

// detectRisks evaluates the five independent rules in fixed order. Every
// applicable rule fires; the fallback sentinel is emitted only when none do.
func detectRisks(ds Dataset, profitMargin float64, d deltas, totalExpenses decimal.Decimal) []risk {
	var risks []risk

	if profitMargin < 10 {
		risks = append(risks, risk{Kind: lexicon.RiskLowMargin, Text: lexicon.RiskLowMarginText})
	}
	if d.expense != nil && *d.expense > 20 {
		risks = append(risks, risk{
			Kind: lexicon.RiskExpenseSpike,
			Text: fmt.Sprintf(lexicon.RiskExpenseSpikeText, *d.expense),
		})
	}
	if d.revenue != nil && *d.revenue < -15 {
		risks = append(risks, risk{
			Kind: lexicon.RiskRevenueDrop,
			Text: fmt.Sprintf(lexicon.RiskRevenueDropText, math.Abs(*d.revenue)),
		})
	}
	if n := len(ds.Buckets); n > 0 && ds.Buckets[n-1].Net.IsNegative() {
		risks = append(risks, risk{Kind: lexicon.RiskLoss, Text: lexicon.RiskLossText})
	}
	if ds.HasCategories && len(ds.CategoryExpenses) > 0 && totalExpenses.IsPositive() {
		top := ds.CategoryExpenses[0]
		share := top.Amount.Div(totalExpenses).InexactFloat64() * 100
		if share > 40 {
			risks = append(risks, risk{
				Kind:     lexicon.RiskConcentration,
				Text:     fmt.Sprintf(lexicon.RiskConcentrationText, top.Name, share),
				Category: top.Name,
			})
		}
	}

	if len(risks) == 0 {
		risks = append(risks, risk{Kind: lexicon.RiskNone, Text: lexicon.RiskNoneText})
	}
	return risks
}

// recommend maps risks to recommendations through the shared rule table,
// de-duplicating while preserving first-seen order.
func recommend(risks []risk) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range risks {
		template, ok := lexicon.Recommendations[r.Kind]
		if !ok {
			continue
		}
		rec := template
		if r.Kind == lexicon.RiskConcentration {
			rec = fmt.Sprintf(template, r.Category)
		}
		if !seen[rec] {
			seen[rec] = true
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		out = append(out, lexicon.FallbackRecommendation)
	}
	return out
}

func revenueInsight(delta *float64) string {
	switch {
	case delta == nil:
		return lexicon.InsightNoComparison
	case *delta > 0:
		return lexicon.InsightRevenueGrowth
	case *delta < 0:
		return lexicon.InsightRevenueDrop
	default:
		return lexicon.InsightRevenueStable
	}
}

func expenseInsight(delta *float64) string {
	switch {
	case delta == nil:
		return lexicon.InsightNoComparison
	case *delta > 20:
		return lexicon.InsightExpensesSpike
	case *delta < -10:
		return lexicon.InsightExpensesControl
	default:
		return lexicon.InsightExpensesNormal
	}
}

func netInsight(netProfit decimal.Decimal, delta *float64) string {
	if netProfit.IsNegative() {
		return lexicon.InsightNetLoss
	}
	if delta != nil && *delta > 0 {
		return lexicon.InsightNetGrowth
	}
	return lexicon.InsightNetPositiv
}

func marginInsight(margin float64) string {
	switch {
	case margin < 10:
		return lexicon.InsightMarginLow
	case margin > 40:
		return lexicon.InsightMarginHealthy
	default:
		return lexicon.InsightMarginGood
	}
}
