// Package report turns analysis results into the user-facing narrative and
// the downloadable PDF document. The summary composer is deterministic;
// optional LLM rewriting happens elsewhere and only ever replaces text that
// this package already produced.
package report

import (
	"fmt"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
)

const (
	introPnL    = "تم تحليل قائمة دخل شهرية. "
	introLedger = "تم تحليل بيانات معاملات مالية. "

	tailRisky  = "يرجى الانتباه للمخاطر المرصودة أدناه لضمان الاستدامة المالية."
	tailStable = "الأداء المالي يبدو مستقراً بشكل عام."
)

// Summary composes the Arabic executive summary from the analysis result.
// The wording is fixed; only the schema intro, the figures and the closing
// sentence vary.
func Summary(schema analysis.Schema, res *analysis.Result) string {
	intro := introLedger
	if schema == analysis.SchemaPnL {
		intro = introPnL
	}

	revenue := res.KPIs[0].Value
	netProfit := res.KPIs[2].Value
	margin := res.KPIs[3].Value

	s := intro
	s += fmt.Sprintf("بناءً على تحليل %d شهر من البيانات، ", res.MonthlyCount)
	s += fmt.Sprintf("حقق النشاط إجمالي إيرادات %s بصافي ربح %s. ", revenue, netProfit)
	s += fmt.Sprintf("هامش الربح الحالي هو %s. ", margin)
	if res.HasCriticalRisk {
		s += tailRisky
	} else {
		s += tailStable
	}
	return s
}
