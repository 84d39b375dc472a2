package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/service"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
	"github.com/yu47362/sc2002InternshipApplication/pkg/jobs"
	"github.com/yu47362/sc2002InternshipApplication/pkg/response"
	"github.com/yu47362/sc2002InternshipApplication/pkg/storage"
)

// archivePayload carries a rendered report to the archive workers.
type archivePayload struct {
	Filename string
	Data     []byte
}

// ReportHandler serves the staff reporting endpoints. The archive, queue and
// signer are optional; without them exports still stream but cannot be
// re-downloaded later.
type ReportHandler struct {
	reports *service.ReportService
	archive *storage.ExportArchive
	queue   *jobs.Queue
	signer  *storage.DownloadTokenSigner
	logger  *zap.Logger
}

// NewReportHandler creates a new handler.
func NewReportHandler(reports *service.ReportService, archive *storage.ExportArchive, queue *jobs.Queue, signer *storage.DownloadTokenSigner, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, archive: archive, queue: queue, signer: signer, logger: logger}
}

// NewReportArchiveQueue builds the worker queue that persists rendered
// reports into the export archive.
func NewReportArchiveQueue(archive *storage.ExportArchive, logger *zap.Logger) *jobs.Queue {
	return jobs.NewQueue("report-archive", func(ctx context.Context, job jobs.Job) error {
		body, ok := job.Payload.(archivePayload)
		if !ok {
			return fmt.Errorf("unexpected archive payload %T", job.Payload)
		}
		return archive.Save(body.Filename, body.Data)
	}, jobs.Options{Workers: 1, Logger: logger})
}

// Overview godoc
// @Summary Placement overview
// @Description Returns system-wide placement counts, cached between requests
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/reports/overview [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	overview, err := h.reports.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// CompanyBreakdown godoc
// @Summary Per-company breakdown
// @Description Aggregates postings, applications and placements per company
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/reports/companies [get]
func (h *ReportHandler) CompanyBreakdown(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reports.CompanyBreakdown(c.Request.Context()))
}

// Export godoc
// @Summary Export placement report
// @Description Streams the per-company report as CSV or PDF and archives a copy; the X-Download-Token header carries a time-limited re-download token
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /staff/reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))
	payload, contentType, err := h.reports.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("placement-report-%s.%s", time.Now().UTC().Format("20060102"), format)
	if h.queue != nil {
		job := jobs.Job{ID: filename, Kind: "archive", Payload: archivePayload{Filename: filename, Data: payload}}
		if err := h.queue.Enqueue(job); err != nil {
			h.logger.Warn("failed to enqueue report archive", zap.String("filename", filename), zap.Error(err))
		}
	}
	if h.signer != nil {
		if token, _, err := h.signer.Generate(filename); err == nil {
			c.Header("X-Download-Token", token)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

// Download godoc
// @Summary Download an archived report
// @Description Serves a previously exported report referenced by a signed token
// @Tags Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	if h.signer == nil || h.archive == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report archive is not enabled"))
		return
	}
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter required"))
		return
	}

	filename, err := h.signer.Parse(token)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, "invalid or expired download token"))
		return
	}
	file, err := h.archive.Open(filename)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "archived report not found"))
		return
	}
	defer file.Close()

	contentType := "text/csv"
	if filepath.Ext(filename) == ".pdf" {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.logger.Warn("failed to stream archived report", zap.String("filename", filename), zap.Error(err))
	}
}
