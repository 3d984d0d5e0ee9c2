package analyze

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
	"github.com/mizanhq/mizan-api/internal/domain/ingest"
	"github.com/mizanhq/mizan-api/internal/domain/report"
	"github.com/mizanhq/mizan-api/internal/domain/usage"
)

// Arabic error details for upload failures.
const (
	detailUnsupportedType = "نوع الملف غير مدعوم. يرجى رفع ملف CSV أو Excel."
	detailFileTooLarge    = "حجم الملف كبير جداً (الحد الأقصى 10 ميجابايت)."
	detailBadFile         = "الملف غير صالح للتحليل المالي. يرجى رفع ملف يحتوي على بيانات مالية بصيغة CSV أو Excel."
	detailReportNotFound  = "التقرير غير موجود"
	detailProcessing      = "خطأ في معالجة الملف: "
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Handler exposes the analysis API over HTTP
type Handler struct {
	service *Service
	reports *report.Service
	logger  *slog.Logger
}

// NewHandler creates a new analyze handler
func NewHandler(service *Service, reports *report.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, reports: reports, logger: logger}
}

// RegisterRoutes mounts the API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/analyze", h.Analyze)
	r.Get("/reports/{filename}", h.GetReport)
	r.Get("/health", h.Health)
}

// Analyze handles one spreadsheet upload.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	clientIP := clientAddr(r)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn("upload without file field", slog.Any("error", err))
		writeError(w, r, http.StatusBadRequest, detailBadFile)
		return
	}
	defer file.Close()

	req := Request{
		Filename: header.Filename,
		File:     file,
		Concern:  r.FormValue("concern"),
		ClientIP: clientIP,
		IsDemo:   r.FormValue("is_demo") == "1",
	}

	h.logger.Info("processing upload",
		slog.String("client_ip", clientIP),
		slog.String("filename", req.Filename),
		slog.Bool("demo", req.IsDemo),
	)

	resp, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.writeAnalyzeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// GetReport serves a generated PDF by filename.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	rc, err := h.reports.Open(r.Context(), filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Error("failed to open report", slog.String("filename", filename), slog.Any("error", err))
		}
		writeError(w, r, http.StatusNotFound, detailReportNotFound)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("report download aborted", slog.Any("error", err))
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]bool{"ok": true})
}

// writeAnalyzeError maps pipeline errors onto the status codes and Arabic
// details of the API contract.
func (h *Handler) writeAnalyzeError(w http.ResponseWriter, r *http.Request, err error) {
	var quotaErr *usage.QuotaError
	var schemaErr *analysis.SchemaError
	var emptyErr *analysis.EmptyDatasetError

	switch {
	case errors.As(err, &quotaErr):
		writeError(w, r, http.StatusTooManyRequests, quotaErr.Detail())
	case errors.Is(err, ingest.ErrUnsupportedType):
		writeError(w, r, http.StatusBadRequest, detailUnsupportedType)
	case errors.Is(err, ingest.ErrFileTooLarge):
		writeError(w, r, http.StatusBadRequest, detailFileTooLarge)
	case errors.Is(err, ingest.ErrEmptyFile), errors.Is(err, ingest.ErrNoHeader):
		writeError(w, r, http.StatusBadRequest, detailBadFile)
	case errors.As(err, &schemaErr):
		writeError(w, r, http.StatusBadRequest, schemaErr.Detail())
	case errors.As(err, &emptyErr):
		writeError(w, r, http.StatusBadRequest, emptyErr.Detail())
	default:
		h.logger.Error("analysis failed", slog.Any("error", err))
		writeError(w, r, http.StatusInternalServerError, detailProcessing+err.Error())
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Detail: detail})
}

// clientAddr extracts the client IP, trusting X-Forwarded-For when present
// since LAN deployments commonly sit behind a reverse proxy.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
