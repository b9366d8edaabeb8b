package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applogbook "github.com/kitchenops/backend/internal/application/logbook"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
)

// TemplateHandler handles log template API endpoints
type TemplateHandler struct {
	BaseHandler
	templateService *applogbook.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService *applogbook.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// Create registers a new log template from a form schema
func (h *TemplateHandler) Create(c *gin.Context) {
	var req applogbook.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// Get retrieves a template by ID
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	template, err := h.templateService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// List returns active templates, optionally filtered by category
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templateService.ListActive(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, templates)
}

// UpdateSchema changes a template's schema. Templates with submissions
// get a fresh versioned template instead of an in-place edit.
func (h *TemplateHandler) UpdateSchema(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	var req applogbook.UpdateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.UpdateSchema(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// Retire deprecates or archives a template
func (h *TemplateHandler) Retire(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	var req applogbook.RetireTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Retire(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// Restore brings an archived template back. The route is mounted under
// the admin group, which is what grants the restore capability.
func (h *TemplateHandler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	template, err := h.templateService.Restore(c.Request.Context(), id, lifecycle.CapabilityRestore)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}
