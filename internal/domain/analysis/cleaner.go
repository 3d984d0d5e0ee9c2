package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tokens stripped from textual amounts before parsing: common currency
// symbols, the riyal code in both scripts, thousands separators and
// directional marks that spreadsheets exported from RTL locales carry.
var amountNoise = []string{"$", "€", "£", "SAR", "SAT", "ر.س", ",", "‎", "‏"}

// CleanAmount interprets a single cell as a monetary amount.
//
// Already-numeric cells pass through unchanged. Text cells are stripped of
// currency symbols, code tokens, separators and whitespace, then parsed.
// The second return value is false when the cell cannot be read as a number;
// that outcome is a filtering signal for row validation, never an error.
func CleanAmount(c Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		s := c.Text
		for _, tok := range amountNoise {
			s = strings.ReplaceAll(s, tok, "")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}
