package workforce

import (
	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// Workforce aggregate types
const (
	AggregateTypeRole  = "role"
	AggregateTypeUser  = "user"
	AggregateTypeTask  = "task"
	AggregateTypePhase = "phase"
)

// Workforce domain event types
const (
	EventTypeRoleCreated    = "role.created"
	EventTypeRoleActivated  = "role.activated"
	EventTypeRoleDeprecated = "role.deprecated"
	EventTypeRoleArchived   = "role.archived"

	EventTypeUserCreated     = "user.created"
	EventTypeUserActivated   = "user.activated"
	EventTypeUserSuspended   = "user.suspended"
	EventTypeUserDeactivated = "user.deactivated"
	EventTypeUserArchived    = "user.archived"

	EventTypeTaskCreated    = "task.created"
	EventTypeTaskActivated  = "task.activated"
	EventTypeTaskPaused     = "task.paused"
	EventTypeTaskRetired    = "task.retired"
	EventTypeTaskArchived   = "task.archived"
	EventTypeTaskReassigned = "task.reassigned"

	EventTypePhaseCreated  = "phase.created"
	EventTypePhaseRetired  = "phase.retired"
	EventTypePhaseRestored = "phase.restored"
)

// RoleEvent carries the role snapshot for any role lifecycle event
type RoleEvent struct {
	shared.BaseDomainEvent
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

func newRoleEvent(eventType string, r *Role) *RoleEvent {
	return &RoleEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRole, r.ID),
		Name:            r.Name,
		Slug:            r.Slug,
		Status:          string(r.Status),
	}
}

// NewRoleCreatedEvent creates a role.created event
func NewRoleCreatedEvent(r *Role) *RoleEvent { return newRoleEvent(EventTypeRoleCreated, r) }

// NewRoleActivatedEvent creates a role.activated event
func NewRoleActivatedEvent(r *Role) *RoleEvent { return newRoleEvent(EventTypeRoleActivated, r) }

// NewRoleDeprecatedEvent creates a role.deprecated event
func NewRoleDeprecatedEvent(r *Role) *RoleEvent { return newRoleEvent(EventTypeRoleDeprecated, r) }

// NewRoleArchivedEvent creates a role.archived event
func NewRoleArchivedEvent(r *Role) *RoleEvent { return newRoleEvent(EventTypeRoleArchived, r) }

// UserEvent carries the user snapshot for any user lifecycle event
type UserEvent struct {
	shared.BaseDomainEvent
	Name   string    `json:"name"`
	Slug   string    `json:"slug"`
	RoleID uuid.UUID `json:"role_id"`
	Status string    `json:"status"`
}

func newUserEvent(eventType string, u *User) *UserEvent {
	return &UserEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeUser, u.ID),
		Name:            u.Name,
		Slug:            u.Slug,
		RoleID:          u.RoleID,
		Status:          string(u.Status),
	}
}

// NewUserCreatedEvent creates a user.created event
func NewUserCreatedEvent(u *User) *UserEvent { return newUserEvent(EventTypeUserCreated, u) }

// NewUserActivatedEvent creates a user.activated event
func NewUserActivatedEvent(u *User) *UserEvent { return newUserEvent(EventTypeUserActivated, u) }

// NewUserSuspendedEvent creates a user.suspended event
func NewUserSuspendedEvent(u *User) *UserEvent { return newUserEvent(EventTypeUserSuspended, u) }

// NewUserDeactivatedEvent creates a user.deactivated event
func NewUserDeactivatedEvent(u *User) *UserEvent { return newUserEvent(EventTypeUserDeactivated, u) }

// NewUserArchivedEvent creates a user.archived event
func NewUserArchivedEvent(u *User) *UserEvent { return newUserEvent(EventTypeUserArchived, u) }

// TaskEvent carries the task snapshot for any task lifecycle event
type TaskEvent struct {
	shared.BaseDomainEvent
	Title      string    `json:"title"`
	RoleID     uuid.UUID `json:"role_id"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	PhaseID    uuid.UUID `json:"phase_id"`
	Status     string    `json:"status"`
}

func newTaskEvent(eventType string, t *Task) *TaskEvent {
	return &TaskEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTask, t.ID),
		Title:           t.Title,
		RoleID:          t.RoleID,
		AssigneeID:      t.AssigneeID,
		PhaseID:         t.PhaseID,
		Status:          string(t.Status),
	}
}

// NewTaskCreatedEvent creates a task.created event
func NewTaskCreatedEvent(t *Task) *TaskEvent { return newTaskEvent(EventTypeTaskCreated, t) }

// NewTaskActivatedEvent creates a task.activated event
func NewTaskActivatedEvent(t *Task) *TaskEvent { return newTaskEvent(EventTypeTaskActivated, t) }

// NewTaskPausedEvent creates a task.paused event
func NewTaskPausedEvent(t *Task) *TaskEvent { return newTaskEvent(EventTypeTaskPaused, t) }

// NewTaskRetiredEvent creates a task.retired event
func NewTaskRetiredEvent(t *Task) *TaskEvent { return newTaskEvent(EventTypeTaskRetired, t) }

// NewTaskArchivedEvent creates a task.archived event
func NewTaskArchivedEvent(t *Task) *TaskEvent { return newTaskEvent(EventTypeTaskArchived, t) }

// TaskReassignedEvent records a task being re-pointed from an archived
// owner to a sentinel
type TaskReassignedEvent struct {
	shared.BaseDomainEvent
	Reference  string    `json:"reference"`
	FromID     uuid.UUID `json:"from_id"`
	SentinelID uuid.UUID `json:"sentinel_id"`
	Status     string    `json:"status"`
}

// NewTaskReassignedEvent creates a task.reassigned event. reference
// names which foreign reference moved: role, user or phase.
func NewTaskReassignedEvent(t *Task, reference string, fromID, sentinelID uuid.UUID) *TaskReassignedEvent {
	return &TaskReassignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskReassigned, AggregateTypeTask, t.ID),
		Reference:       reference,
		FromID:          fromID,
		SentinelID:      sentinelID,
		Status:          string(t.Status),
	}
}

// PhaseEvent carries the phase snapshot for any phase lifecycle event
type PhaseEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Sequence int    `json:"sequence"`
	Retired  bool   `json:"retired"`
}

func newPhaseEvent(eventType string, p *Phase) *PhaseEvent {
	return &PhaseEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePhase, p.ID),
		Name:            p.Name,
		Slug:            p.Slug,
		Sequence:        p.Sequence,
		Retired:         p.IsRetired(),
	}
}

// NewPhaseCreatedEvent creates a phase.created event
func NewPhaseCreatedEvent(p *Phase) *PhaseEvent { return newPhaseEvent(EventTypePhaseCreated, p) }

// NewPhaseRetiredEvent creates a phase.retired event
func NewPhaseRetiredEvent(p *Phase) *PhaseEvent { return newPhaseEvent(EventTypePhaseRetired, p) }

// NewPhaseRestoredEvent creates a phase.restored event
func NewPhaseRestoredEvent(p *Phase) *PhaseEvent { return newPhaseEvent(EventTypePhaseRestored, p) }
