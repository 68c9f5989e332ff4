package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/report"
	"github.com/labpoint/labportal/internal/service"
	"github.com/labpoint/labportal/pkg/metrics"
)

type ReportHandler struct {
	reportSvc *service.ReportService
	collector *metrics.Collector
}

func NewReportHandler(reportSvc *service.ReportService, collector *metrics.Collector) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, collector: collector}
}

type generateReportRequest struct {
	PatientID   uuid.UUID                `json:"patient_id"`
	TestID      uuid.UUID                `json:"test_id"`
	BookingID   *uuid.UUID               `json:"booking_id"`
	Technician  string                   `json:"technician"`
	ReferredBy  string                   `json:"referred_by"`
	CollectedAt time.Time                `json:"collected_at"`
	Parameters  []report.ParameterResult `json:"parameters"`
}

func (h *ReportHandler) Generate(c *gin.Context) {
	var req generateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := currentClaims(c)
	res, rep, err := h.reportSvc.GenerateReport(c.Request.Context(), &report.GenerateReportCommand{
		PatientID:   req.PatientID,
		TestID:      req.TestID,
		BookingID:   req.BookingID,
		Technician:  req.Technician,
		ReferredBy:  req.ReferredBy,
		CollectedAt: req.CollectedAt,
		Parameters:  req.Parameters,
	}, claims.ID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.ReportsGeneratedTotal.Inc()
	respondCreated(c, gin.H{"result": res, "report": rep})
}

// Download serves a report by its capability token. The payment gate is
// applied inside the service regardless of what any listing showed.
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Param("token")

	rep, res, err := h.reportSvc.DownloadByToken(c.Request.Context(), token)
	if err != nil {
		h.collector.ReportDownloadsTotal.WithLabelValues("denied").Inc()
		respondServiceError(c, err)
		return
	}

	h.collector.ReportDownloadsTotal.WithLabelValues("served").Inc()

	if rep.FilePath != "" {
		c.FileAttachment(rep.FilePath, "report-"+rep.ID.String()+".pdf")
		return
	}

	respondOK(c, gin.H{"report": rep, "result": res})
}

func (h *ReportHandler) ListOwn(c *gin.Context) {
	claims := currentClaims(c)
	entries, err := h.reportSvc.ListPatientReports(c.Request.Context(), claims.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}
