package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appworkforce "github.com/kitchenops/backend/internal/application/workforce"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
)

// WorkforceHandler handles role, user, task and phase API endpoints
type WorkforceHandler struct {
	BaseHandler
	lifecycleService *appworkforce.LifecycleService
}

// NewWorkforceHandler creates a new WorkforceHandler
func NewWorkforceHandler(lifecycleService *appworkforce.LifecycleService) *WorkforceHandler {
	return &WorkforceHandler{lifecycleService: lifecycleService}
}

// CreateRole creates a new role
func (h *WorkforceHandler) CreateRole(c *gin.Context) {
	var req appworkforce.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	role, err := h.lifecycleService.CreateRole(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, role)
}

// CreateUser creates a new user
func (h *WorkforceHandler) CreateUser(c *gin.Context) {
	var req appworkforce.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.lifecycleService.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// CreateTask creates a new task
func (h *WorkforceHandler) CreateTask(c *gin.Context) {
	var req appworkforce.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.lifecycleService.CreateTask(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, task)
}

// CreatePhase creates a new phase
func (h *WorkforceHandler) CreatePhase(c *gin.Context) {
	var req appworkforce.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	phase, err := h.lifecycleService.CreatePhase(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, phase)
}

// TransitionRole applies a lifecycle transition to a role
func (h *WorkforceHandler) TransitionRole(c *gin.Context) {
	id, req, ok := h.bindTransition(c)
	if !ok {
		return
	}

	role, err := h.lifecycleService.TransitionRole(c.Request.Context(), id, req.Transition)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// ArchiveRole archives a role and re-points its tasks at the role
// sentinel in the same transaction
func (h *WorkforceHandler) ArchiveRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	result, err := h.lifecycleService.ArchiveRole(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RestoreRole brings an archived role back. Mounted under the admin
// group, which grants the restore capability.
func (h *WorkforceHandler) RestoreRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	role, err := h.lifecycleService.TransitionRole(c.Request.Context(), id,
		string(lifecycle.TransitionRestore), lifecycle.CapabilityRestore)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// TransitionUser applies a lifecycle transition to a user
func (h *WorkforceHandler) TransitionUser(c *gin.Context) {
	id, req, ok := h.bindTransition(c)
	if !ok {
		return
	}

	user, err := h.lifecycleService.TransitionUser(c.Request.Context(), id, req.Transition)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ArchiveUser archives a user and marks their open tasks unassigned via
// the user sentinel
func (h *WorkforceHandler) ArchiveUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	result, err := h.lifecycleService.ArchiveUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RestoreUser brings an archived user back
func (h *WorkforceHandler) RestoreUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.lifecycleService.TransitionUser(c.Request.Context(), id,
		string(lifecycle.TransitionRestore), lifecycle.CapabilityRestore)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// TransitionTask applies a lifecycle transition to a task
func (h *WorkforceHandler) TransitionTask(c *gin.Context) {
	id, req, ok := h.bindTransition(c)
	if !ok {
		return
	}

	task, err := h.lifecycleService.TransitionTask(c.Request.Context(), id, req.Transition)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// RetirePhase retires a phase and re-points its tasks at the phase
// sentinel in the same transaction
func (h *WorkforceHandler) RetirePhase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid phase ID")
		return
	}

	result, err := h.lifecycleService.RetirePhase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RestorePhase clears a phase's retirement timestamp
func (h *WorkforceHandler) RestorePhase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid phase ID")
		return
	}

	phase, err := h.lifecycleService.RestorePhase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, phase)
}

func (h *WorkforceHandler) bindTransition(c *gin.Context) (uuid.UUID, appworkforce.TransitionRequest, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, appworkforce.TransitionRequest{}, false
	}

	var req appworkforce.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, appworkforce.TransitionRequest{}, false
	}

	return id, req, true
}
