package workforce

import (
	"time"

	"github.com/google/uuid"
	domain "github.com/kitchenops/backend/internal/domain/workforce"
)

// CreateRoleRequest carries a new role definition
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"required,max=100"`
	Description string `json:"description,omitempty"`
}

// CreateUserRequest carries a new user definition
type CreateUserRequest struct {
	Name   string    `json:"name" binding:"required,max=100"`
	Slug   string    `json:"slug" binding:"required,max=100"`
	Email  string    `json:"email,omitempty" binding:"omitempty,email"`
	RoleID uuid.UUID `json:"role_id" binding:"required"`
}

// CreateTaskRequest carries a new task definition
type CreateTaskRequest struct {
	Title      string    `json:"title" binding:"required,max=200"`
	RoleID     uuid.UUID `json:"role_id" binding:"required"`
	AssigneeID uuid.UUID `json:"assignee_id,omitempty"`
	PhaseID    uuid.UUID `json:"phase_id,omitempty"`
}

// CreatePhaseRequest carries a new phase definition
type CreatePhaseRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Slug     string `json:"slug" binding:"required,max=100"`
	Sequence int    `json:"sequence" binding:"min=0"`
}

// TransitionRequest asks for a lifecycle transition on one entity
type TransitionRequest struct {
	Transition string `json:"transition" binding:"required"`
}

// RoleResponse is the role read model
type RoleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Sentinel    bool       `json:"sentinel"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func toRoleResponse(r *domain.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Status:      string(r.Status),
		Sentinel:    r.Sentinel,
		DeletedAt:   r.DeletedAt,
	}
}

// UserResponse is the user read model
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Email     string     `json:"email,omitempty"`
	RoleID    uuid.UUID  `json:"role_id"`
	Status    string     `json:"status"`
	Sentinel  bool       `json:"sentinel"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Slug:      u.Slug,
		Email:     u.Email,
		RoleID:    u.RoleID,
		Status:    string(u.Status),
		Sentinel:  u.Sentinel,
		DeletedAt: u.DeletedAt,
	}
}

// TaskResponse is the task read model
type TaskResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	RoleID     uuid.UUID  `json:"role_id"`
	AssigneeID uuid.UUID  `json:"assignee_id,omitempty"`
	PhaseID    uuid.UUID  `json:"phase_id,omitempty"`
	Status     string     `json:"status"`
	Sentinel   bool       `json:"sentinel"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:         t.ID,
		Title:      t.Title,
		RoleID:     t.RoleID,
		AssigneeID: t.AssigneeID,
		PhaseID:    t.PhaseID,
		Status:     string(t.Status),
		Sentinel:   t.Sentinel,
		DeletedAt:  t.DeletedAt,
	}
}

// PhaseResponse is the phase read model
type PhaseResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Sequence  int        `json:"sequence"`
	Sentinel  bool       `json:"sentinel"`
	RetiredAt *time.Time `json:"retired_at,omitempty"`
}

func toPhaseResponse(p *domain.Phase) PhaseResponse {
	return PhaseResponse{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Sequence:  p.Sequence,
		Sentinel:  p.Sentinel,
		RetiredAt: p.RetiredAt,
	}
}

// ArchiveResult reports an archive-with-reassignment outcome
type ArchiveResult struct {
	EntityID        uuid.UUID `json:"entity_id"`
	Status          string    `json:"status"`
	ReassignedTasks int       `json:"reassigned_tasks"`
	ReassignedUsers int       `json:"reassigned_users,omitempty"`
	SentinelID      uuid.UUID `json:"sentinel_id"`
}
