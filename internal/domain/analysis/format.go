package analysis

import (
	"fmt"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan-api/internal/domain/analysis/lexicon"
)

// Money values render as thousands-grouped integers with no decimals and no
// currency grapheme; the report is currency-agnostic.
var wholeAmount = money.NewFormatter(0, ".", ",", "", "1")

func formatMoney(d decimal.Decimal) string {
	return wholeAmount.Format(d.Round(0).IntPart())
}

// formatPercentDelta renders a period-over-period delta with one decimal and
// an explicit leading sign, or the "not available" sentinel.
func formatPercentDelta(v *float64) string {
	if v == nil {
		return lexicon.DeltaNotAvailable
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

// formatPointDelta renders the margin delta as percentage points.
func formatPointDelta(v *float64) string {
	if v == nil {
		return lexicon.DeltaNotAvailable
	}
	return fmt.Sprintf("%+.1f %s", *v, lexicon.MarginPointSuffix)
}

func formatPercentValue(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
