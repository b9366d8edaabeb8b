package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appreport "github.com/kitchenops/backend/internal/application/report"
)

// ReportHandler handles report API endpoints. All reports are reads
// over the submission log within a caller-supplied date window.
type ReportHandler struct {
	BaseHandler
	reportService *appreport.ReportService
	marker        *appreport.RecomputeMarker
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *appreport.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// WithRecomputeMarker attaches the dirty-window tracker fed by the
// outbox relay
func (h *ReportHandler) WithRecomputeMarker(marker *appreport.RecomputeMarker) *ReportHandler {
	h.marker = marker
	return h
}

// DirtyWindows lists report weeks with submissions not yet reflected
// in downstream exports
func (h *ReportHandler) DirtyWindows(c *gin.Context) {
	windows := []appreport.DirtyWindow{}
	if h.marker != nil {
		windows = h.marker.DirtyWindows()
	}
	h.Success(c, windows)
}

// WeeklyCompletion reports per-template completion over the window
func (h *ReportHandler) WeeklyCompletion(c *gin.Context) {
	var req appreport.WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.WeeklyCompletion(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ReimbursableMeals reports priced meal counts with a daily breakdown
func (h *ReportHandler) ReimbursableMeals(c *gin.Context) {
	var req appreport.WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.ReimbursableMeals(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ComplianceViolations reports rule breaches grouped by template
func (h *ReportHandler) ComplianceViolations(c *gin.Context) {
	var req appreport.WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.ComplianceViolations(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// LogHistory returns raw submissions for the named templates, retired
// templates included
func (h *ReportHandler) LogHistory(c *gin.Context) {
	var req appreport.WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ids, err := parseTemplateIDs(c.Query("template_ids"))
	if err != nil {
		h.BadRequest(c, "Invalid template_ids")
		return
	}

	report, err := h.reportService.LogHistory(c.Request.Context(), req, ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// parseTemplateIDs parses a comma-separated list of template UUIDs
func parseTemplateIDs(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
