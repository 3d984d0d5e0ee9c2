package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
	"github.com/mizanhq/mizan-api/pkg/storage"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// Document is everything the PDF template needs. Summary and Recommendations
// may already have been rewritten by the LLM pass.
type Document struct {
	Summary         string
	KPIs            []analysis.KPIRecord
	Risks           []string
	Recommendations []string
	Timestamp       string
}

// Service renders and stores report PDFs
type Service struct {
	store    storage.Store
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new report service
func NewService(store storage.Store, renderer Renderer, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate renders the document to PDF and stores it, returning the stored
// filename. Failures are the caller's to absorb; an analysis response is
// still useful without its PDF.
func (s *Service) Generate(ctx context.Context, doc Document) (string, error) {
	if doc.Timestamp == "" {
		doc.Timestamp = s.now().Format("2006-01-02 15:04")
	}

	var html bytes.Buffer
	if err := reportTemplate.Execute(&html, doc); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	pdf, err := s.renderer.RenderPDF(ctx, html.String())
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("report_%s_%s.pdf",
		s.now().Format("20060102_150405"), uuid.NewString()[:8])
	if err := s.store.Save(ctx, filename, bytes.NewReader(pdf)); err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}

	s.logger.Info("report generated", slog.String("filename", filename), slog.Int("bytes", len(pdf)))
	return filename, nil
}

// Open retrieves a stored report by filename.
func (s *Service) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	return s.store.Open(ctx, filename)
}
