// Package analyze orchestrates one analysis request end to end: quota check,
// file decoding, schema classification, the KPI engine, narrative and report
// generation, and quota consumption.
package analyze

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
	"github.com/mizanhq/mizan-api/internal/domain/ingest"
	"github.com/mizanhq/mizan-api/internal/domain/report"
	"github.com/mizanhq/mizan-api/internal/domain/rewrite"
	"github.com/mizanhq/mizan-api/pkg/middleware"
)

// Quota gates and meters analysis runs per client address.
type Quota interface {
	Allow(ctx context.Context, ip string, isDemo bool) error
	Record(ctx context.Context, ip string, isDemo bool) error
}

// Request is one analysis submission.
type Request struct {
	Filename string
	File     io.Reader
	Concern  string
	ClientIP string
	IsDemo   bool
}

// Response mirrors the JSON contract of the analyze endpoint.
type Response struct {
	Summary         string               `json:"summary"`
	KPIs            []analysis.KPIRecord `json:"kpis"`
	Risks           []string             `json:"risks"`
	Recommendations []string             `json:"recommendations"`
	ReportURL       *string              `json:"report_pdf_url"`
}

// Service runs the analysis pipeline
type Service struct {
	quota   Quota
	writer  rewrite.Writer
	reports *report.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates a new analyze service
func NewService(quota Quota, writer rewrite.Writer, reports *report.Service, logger *slog.Logger, tracer trace.Tracer) *Service {
	return &Service{
		quota:   quota,
		writer:  writer,
		reports: reports,
		logger:  logger,
		tracer:  tracer,
	}
}

// Analyze executes the full pipeline. Quota is consumed only after the
// analysis succeeds; a failed upload never costs the client a run.
func (s *Service) Analyze(ctx context.Context, req Request) (*Response, error) {
	ctx, span := s.tracer.Start(ctx, "analyze",
		trace.WithAttributes(
			attribute.String("upload.filename", req.Filename),
			attribute.Bool("upload.demo", req.IsDemo),
		))
	defer span.End()

	if err := s.quota.Allow(ctx, req.ClientIP, req.IsDemo); err != nil {
		return nil, err
	}

	table, err := s.decode(ctx, req)
	if err != nil {
		return nil, err
	}

	result, schema, err := s.run(ctx, table)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("analysis.schema", string(schema)),
		attribute.Int("analysis.months", result.MonthlyCount),
	)
	middleware.ObserveAnalysis(string(schema))

	summary := report.Summary(schema, result)
	recommendations := result.Recommendations

	if exec := s.rewriteNarrative(ctx, summary, result); exec != nil {
		s.logger.Info("using executive rewrite")
		summary = exec.Summary
		recommendations = exec.Recommendations
	}

	reportURL := s.generateReport(ctx, report.Document{
		Summary:         summary,
		KPIs:            result.KPIs,
		Risks:           result.Risks,
		Recommendations: recommendations,
	})

	if err := s.quota.Record(ctx, req.ClientIP, req.IsDemo); err != nil {
		s.logger.Warn("failed to record usage", slog.Any("error", err))
	}

	return &Response{
		Summary:         summary,
		KPIs:            result.KPIs,
		Risks:           result.Risks,
		Recommendations: recommendations,
		ReportURL:       reportURL,
	}, nil
}

func (s *Service) decode(ctx context.Context, req Request) (analysis.RawTable, error) {
	_, span := s.tracer.Start(ctx, "analyze.decode")
	defer span.End()

	table, err := ingest.Decode(req.Filename, req.File)
	if err != nil {
		span.RecordError(err)
		return analysis.RawTable{}, err
	}
	span.SetAttributes(
		attribute.Int("table.columns", len(table.Headers)),
		attribute.Int("table.rows", len(table.Rows)),
	)
	return table, nil
}

func (s *Service) run(ctx context.Context, table analysis.RawTable) (*analysis.Result, analysis.Schema, error) {
	_, span := s.tracer.Start(ctx, "analyze.engine")
	defer span.End()

	result, schema, err := analysis.Run(table)
	if err != nil {
		span.RecordError(err)
	}
	return result, schema, err
}

func (s *Service) rewriteNarrative(ctx context.Context, summary string, result *analysis.Result) *rewrite.Executive {
	ctx, span := s.tracer.Start(ctx, "analyze.rewrite")
	defer span.End()

	return s.writer.Rewrite(ctx, rewrite.Payload{
		Summary:         summary,
		KPIs:            result.KPIs,
		Risks:           result.Risks,
		Recommendations: result.Recommendations,
	})
}

// generateReport renders the PDF and returns its public path. PDF failure is
// absorbed: the response simply goes out without a report link.
func (s *Service) generateReport(ctx context.Context, doc report.Document) *string {
	ctx, span := s.tracer.Start(ctx, "analyze.report")
	defer span.End()

	filename, err := s.reports.Generate(ctx, doc)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("report generation failed", slog.Any("error", err))
		return nil
	}
	url := "/reports/" + filename
	return &url
}
