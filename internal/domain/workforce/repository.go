package workforce

import (
	"context"

	"github.com/google/uuid"
)

// RoleRepository defines persistence for roles
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindBySlug(ctx context.Context, slug string) (*Role, error)
	// FindSentinel returns the permanently archived role placeholder
	FindSentinel(ctx context.Context) (*Role, error)
	ListActive(ctx context.Context) ([]*Role, error)
}

// UserRepository defines persistence for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindBySlug(ctx context.Context, slug string) (*User, error)
	FindSentinel(ctx context.Context) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
	// ListByRole returns non-archived users referencing the role
	ListByRole(ctx context.Context, roleID uuid.UUID) ([]*User, error)
}

// TaskRepository defines persistence for tasks, including the queries
// that drive sentinel reassignment when an owner is archived
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindSentinel(ctx context.Context) (*Task, error)
	ListActive(ctx context.Context) ([]*Task, error)
	// ListByRole returns non-archived tasks owned by the role
	ListByRole(ctx context.Context, roleID uuid.UUID) ([]*Task, error)
	// ListByAssignee returns non-archived tasks assigned to the user
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	// ListByPhase returns non-archived tasks scheduled in the phase
	ListByPhase(ctx context.Context, phaseID uuid.UUID) ([]*Task, error)
	// CountByRole counts non-archived tasks still referencing the role
	CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error)
}

// PhaseRepository defines persistence for phases
type PhaseRepository interface {
	Create(ctx context.Context, phase *Phase) error
	Update(ctx context.Context, phase *Phase) error
	FindByID(ctx context.Context, id uuid.UUID) (*Phase, error)
	FindBySlug(ctx context.Context, slug string) (*Phase, error)
	FindSentinel(ctx context.Context) (*Phase, error)
	// ListLive returns phases without a retirement timestamp ordered by sequence
	ListLive(ctx context.Context) ([]*Phase, error)
}
