package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
	"github.com/mizanhq/mizan-api/pkg/storage"
)

func sampleResult(critical bool) *analysis.Result {
	return &analysis.Result{
		KPIs: []analysis.KPIRecord{
			{Name: "إجمالي الإيرادات", Value: "20,000", Delta: "+0.0%", Insight: "x"},
			{Name: "إجمالي المصروفات", Value: "21,500", Delta: "+26.3%", Insight: "x"},
			{Name: "صافي الربح", Value: "-1,500", Delta: "-500.0%", Insight: "x"},
			{Name: "هامش الربح", Value: "-7.5%", Delta: "-25.0 نقطة", Insight: "x"},
			{Name: "متوسط المصروفات", Value: "10,750", Delta: "شهرياً", Insight: "x"},
			{Name: "أعلى مصروفات", Value: "12,000", Delta: "2024-02", Insight: "x"},
		},
		Risks:           []string{"خطر"},
		Recommendations: []string{"توصية"},
		MonthlyCount:    2,
		HasCriticalRisk: critical,
	}
}

func TestSummaryLedgerWithRisks(t *testing.T) {
	got := Summary(analysis.SchemaTransactions, sampleResult(true))

	assert.True(t, strings.HasPrefix(got, "تم تحليل بيانات معاملات مالية. "))
	assert.Contains(t, got, "بناءً على تحليل 2 شهر من البيانات")
	assert.Contains(t, got, "إجمالي إيرادات 20,000 بصافي ربح -1,500.")
	assert.Contains(t, got, "هامش الربح الحالي هو -7.5%.")
	assert.True(t, strings.HasSuffix(got, "يرجى الانتباه للمخاطر المرصودة أدناه لضمان الاستدامة المالية."))
}

func TestSummaryPnLStable(t *testing.T) {
	got := Summary(analysis.SchemaPnL, sampleResult(false))

	assert.True(t, strings.HasPrefix(got, "تم تحليل قائمة دخل شهرية. "))
	assert.True(t, strings.HasSuffix(got, "الأداء المالي يبدو مستقراً بشكل عام."))
}

// stubRenderer satisfies Renderer without a browser
type stubRenderer struct {
	pdf []byte
	err error
}

func (r *stubRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.pdf, nil
}

func TestServiceGenerate(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(store, &stubRenderer{pdf: []byte("%PDF-1.7 fake")}, discardLogger())

	doc := Document{
		Summary:         "ملخص",
		KPIs:            sampleResult(false).KPIs,
		Risks:           []string{"خطر"},
		Recommendations: []string{"توصية"},
	}

	filename, err := svc.Generate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "report_"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))

	rc, err := svc.Open(context.Background(), filename)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(data))
}

func TestServiceGenerateRendererFailure(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(store, &stubRenderer{err: errors.New("chrome not found")}, discardLogger())

	_, err = svc.Generate(context.Background(), Document{Summary: "x"})
	assert.Error(t, err)
}

func TestReportTemplateRendersRTL(t *testing.T) {
	var html bytes.Buffer
	doc := Document{
		Summary:         "ملخص تنفيذي",
		KPIs:            sampleResult(true).KPIs,
		Risks:           []string{"خطر أول", "خطر ثان"},
		Recommendations: []string{"توصية"},
		Timestamp:       "2024-06-15 10:00",
	}
	require.NoError(t, reportTemplate.Execute(&html, doc))

	out := html.String()
	assert.Contains(t, out, `dir="rtl"`)
	assert.Contains(t, out, "ملخص تنفيذي")
	assert.Contains(t, out, "إجمالي الإيرادات")
	assert.Contains(t, out, "خطر ثان")
	assert.Contains(t, out, "2024-06-15 10:00")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
