// Package lexicon holds the static bilingual (English/Arabic) vocabulary used to
// interpret schema-unknown financial spreadsheets: column synonyms, P&L keyword
// groups, transaction-type tokens and the risk/recommendation rule table.
// The tables are versioned so that locale additions can be tracked and tested
// independently of the analysis pipeline.
package lexicon

// Version identifies the revision of the vocabulary tables.
const Version = "2026-01"

// Canonical column names produced by header normalization.
const (
	ColDate     = "date"
	ColAmount   = "amount"
	ColType     = "type"
	ColCategory = "category"

	ColMonth    = "month"
	ColRevenue  = "revenue"
	ColExpenses = "expenses"
)

// ColumnSynonyms maps a canonical ledger column to the exact header spellings
// (lower-cased, trimmed) that are accepted for it. First matching synonym wins.
var ColumnSynonyms = map[string][]string{
	ColDate:     {"date", "datetime", "timestamp", "التاريخ", "الوقت", "day"},
	ColAmount:   {"amount", "value", "cost", "price", "المبلغ", "القيمة", "السعر", "total"},
	ColType:     {"type", "kind", "direction", "النوع", "الحالة", "category_type"},
	ColCategory: {"category", "cat", "description", "desc", "الفئة", "التصنيف", "البند"},
}

// CanonicalOrder fixes the order in which canonical columns claim headers.
var CanonicalOrder = []string{ColDate, ColAmount, ColType, ColCategory}

// Keyword groups for the P&L schema test. Matching is by substring, so "rev"
// also fires on "monthly revenue (USD)".
var (
	MonthKeywords   = []string{"month", "period", "الشهر", "شهر", "الفترة"}
	RevenueKeywords = []string{"revenue", "sales", "income", "الإيرادات", "المبيعات", "الدخل", "rev"}
	ExpenseKeywords = []string{"expenses", "opex", "costs", "cost", "المصروفات", "التكاليف", "المصاريف", "exp"}
)

// Transaction-type tokens. A row's type cell is lower-cased and trimmed, then
// compared for exact membership.
var (
	IncomeTypeTokens  = []string{"income", "revenue", "credit", "cr", "دخل", "ايرادات", "إيرادات", "ايداع"}
	ExpenseTypeTokens = []string{"expense", "cost", "debit", "dr", "مصروف", "مصروفات", "سحب"}
)

// RiskKind is the symbolic identity of a detected risk. Recommendations are
// keyed by kind rather than by matching substrings of the rendered sentence.
type RiskKind int

const (
	RiskNone RiskKind = iota
	RiskLowMargin
	RiskExpenseSpike
	RiskRevenueDrop
	RiskLoss
	RiskConcentration
)

// Risk sentence templates (Arabic, user-facing).
const (
	RiskLowMarginText     = "هامش الربح الإجمالي منخفض جداً (أقل من 10%)"
	RiskExpenseSpikeText  = "ارتفاع حاد في المصروفات الشهرية بنسبة %.1f%%"
	RiskRevenueDropText   = "انخفاض ملحوظ في الإيرادات الشهرية بنسبة %.1f%%"
	RiskLossText          = "صافي ربح الشهر الأخير سلبي (خسارة)"
	RiskConcentrationText = "تركيز عالي للمصروفات في بند '%s' (%.1f%%)"
	RiskNoneText          = "لم يتم رصد مخاطر حرجة بناءً على البيانات الحالية."
)

// Recommendations keyed by risk kind. The concentration entry is a template
// that receives the dominant category name.
var Recommendations = map[RiskKind]string{
	RiskLowMargin:     "مراجعة تسعير المنتجات أو خفض التكاليف المباشرة فوراً.",
	RiskExpenseSpike:  "تحليل بنود المصروفات المتضخمة لهذا الشهر ووضع سقف للإنفاق.",
	RiskRevenueDrop:   "تفعيل حملات تسويقية عاجلة أو مراجعة أداء فريق المبيعات.",
	RiskLoss:          "إجراء مراجعة شاملة للتدفقات النقدية لتجنب أزمة سيولة.",
	RiskConcentration: "البحث عن موردين بدائل أو تقليل الاعتماد على '%s' إن أمكن.",
}

// FallbackRecommendation is emitted when no risk maps to a recommendation.
const FallbackRecommendation = "الاستمرار في مراقبة الأداء المالي للحفاظ على الاستقرار."

// KPI display names, in slot order.
const (
	KPITotalRevenue   = "إجمالي الإيرادات"
	KPITotalExpenses  = "إجمالي المصروفات"
	KPINetProfit      = "صافي الربح"
	KPIProfitMargin   = "هامش الربح"
	KPIAvgExpenses    = "متوسط المصروفات"
	KPIHighestExpense = "أعلى مصروفات"
)

// Fixed delta annotations.
const (
	DeltaNotAvailable = "غير متاح"
	DeltaMonthly      = "شهرياً"
	MarginPointSuffix = "نقطة"
)

// Insight sentences, selected by sign/threshold of the metric's delta.
const (
	InsightNoComparison = "لا تتوفر بيانات كافية للمقارنة."

	InsightRevenueGrowth = "نمو إيجابي في الإيرادات مقارنة بالشهر السابق."
	InsightRevenueDrop   = "تراجع في الإيرادات يتطلب مراجعة أسباب الانخفاض."
	InsightRevenueStable = "استقرار في الإيرادات مقارنة بالشهر السابق."

	InsightExpensesSpike   = "ارتفاع ملحوظ في المصروفات التشغيلية."
	InsightExpensesControl = "تحسن في ضبط المصروفات وترشيد الإنفاق."
	InsightExpensesNormal  = "المصروفات ضمن النطاق المعتاد."

	InsightNetLoss    = "تسجيل خسارة صافية خلال الفترة."
	InsightNetGrowth  = "نمو في صافي الأرباح مقارنة بالفترة السابقة."
	InsightNetPositiv = "تحقيق صافي ربح إيجابي."

	InsightMarginLow     = "هامش الربح منخفض وقد يؤثر على الاستدامة."
	InsightMarginHealthy = "هامش ربح صحي وممتاز."
	InsightMarginGood    = "هامش ربح جيد ومستقر."

	InsightAvgExpenses    = "متوسط الإنفاق الشهري التشغيلي."
	InsightHighestExpense = "الشهر الأعلى إنفاقاً خلال الفترة."
)
