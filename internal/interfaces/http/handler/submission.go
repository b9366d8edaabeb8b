package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applogbook "github.com/kitchenops/backend/internal/application/logbook"
	"github.com/kitchenops/backend/internal/domain/logbook"
)

// SubmissionHandler handles log submission API endpoints
type SubmissionHandler struct {
	BaseHandler
	submissionService *applogbook.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService *applogbook.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Submit validates and records a filled-in log
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req applogbook.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	submission, err := h.submissionService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, submission)
}

// SaveDraft records a partially filled log for later completion
func (h *SubmissionHandler) SaveDraft(c *gin.Context) {
	var req applogbook.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	draft, err := h.submissionService.SaveDraft(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, draft)
}

// Complete finalizes a pending submission with its full data
func (h *SubmissionHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid submission ID")
		return
	}

	var req applogbook.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	submission, err := h.submissionService.Complete(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submission)
}

// Get retrieves a submission by ID
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid submission ID")
		return
	}

	submission, err := h.submissionService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submission)
}

// Correct records a correcting submission linked to the original.
// The original stays untouched.
func (h *SubmissionHandler) Correct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid submission ID")
		return
	}

	var req applogbook.CorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	submission, err := h.submissionService.Correct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, submission)
}

// windowQuery binds the start_date/end_date query pair
type windowQuery struct {
	StartDate time.Time `form:"start_date" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02" binding:"required"`
}

// ListByTemplate returns a template's submissions within a date window
func (h *SubmissionHandler) ListByTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	var q windowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	submissions, err := h.submissionService.ListByTemplate(c.Request.Context(), templateID, logbook.SubmissionWindow{
		Start: q.StartDate,
		End:   q.EndDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submissions)
}
