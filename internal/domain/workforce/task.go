package workforce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// Task is a unit of kitchen work owned by a role, optionally assigned
// to a user, scheduled inside a phase. When an owner is archived the
// task is re-pointed at that owner type's sentinel and marked
// unassigned, never deleted.
type Task struct {
	shared.BaseAggregateRoot
	Title      string
	RoleID     uuid.UUID
	AssigneeID uuid.UUID
	PhaseID    uuid.UUID
	Status     lifecycle.State
	Sentinel   bool
	DeletedAt  *time.Time
}

// NewTask creates an active task owned by a role
func NewTask(title string, roleID, assigneeID, phaseID uuid.UUID) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Task title cannot be empty")
	}
	if roleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Task requires an owning role")
	}

	t := &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             strings.TrimSpace(title),
		RoleID:            roleID,
		AssigneeID:        assigneeID,
		PhaseID:           phaseID,
		Status:            lifecycle.StateActive,
	}

	t.AddDomainEvent(NewTaskCreatedEvent(t))

	return t, nil
}

// NewSentinelTask builds the permanently archived task placeholder. It
// points at the other sentinels so its foreign keys always resolve.
func NewSentinelTask(sentinelRoleID, sentinelUserID, sentinelPhaseID uuid.UUID) *Task {
	now := time.Now()
	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             "To Be Assigned",
		RoleID:            sentinelRoleID,
		AssigneeID:        sentinelUserID,
		PhaseID:           sentinelPhaseID,
		Status:            lifecycle.StateArchived,
		Sentinel:          true,
		DeletedAt:         &now,
	}
}

// IsArchived reports whether the task is soft-deleted
func (t *Task) IsArchived() bool {
	return t.Status == lifecycle.StateArchived
}

// Transition applies a lifecycle transition with the same sentinel and
// idempotent-archive rules as roles
func (t *Task) Transition(tr lifecycle.Transition, caps ...lifecycle.Capability) error {
	if t.Sentinel {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}
	if tr == lifecycle.TransitionArchive && t.Status == lifecycle.StateArchived {
		return nil
	}

	next, err := lifecycle.TaskMachine().Next(t.Status, tr, caps...)
	if err != nil {
		return err
	}

	t.Status = next
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	switch tr {
	case lifecycle.TransitionArchive:
		if t.DeletedAt == nil {
			now := time.Now()
			t.DeletedAt = &now
		}
		t.AddDomainEvent(NewTaskArchivedEvent(t))
	case lifecycle.TransitionPause:
		t.AddDomainEvent(NewTaskPausedEvent(t))
	case lifecycle.TransitionRetire:
		t.AddDomainEvent(NewTaskRetiredEvent(t))
	case lifecycle.TransitionActivate, lifecycle.TransitionRestore:
		t.DeletedAt = nil
		t.AddDomainEvent(NewTaskActivatedEvent(t))
	}

	return nil
}

// ReassignRole re-points the task at the role sentinel when its owning
// role is archived. The task becomes unassigned until a real owner is
// chosen again.
func (t *Task) ReassignRole(sentinelRoleID, archivedRoleID uuid.UUID) {
	t.RoleID = sentinelRoleID
	t.markUnassigned()
	t.AddDomainEvent(NewTaskReassignedEvent(t, "role", archivedRoleID, sentinelRoleID))
}

// ReassignAssignee re-points the task at the user sentinel when its
// assignee is archived
func (t *Task) ReassignAssignee(sentinelUserID, archivedUserID uuid.UUID) {
	t.AssigneeID = sentinelUserID
	t.markUnassigned()
	t.AddDomainEvent(NewTaskReassignedEvent(t, "user", archivedUserID, sentinelUserID))
}

// ReassignPhase re-points the task at the phase sentinel when its phase
// is retired
func (t *Task) ReassignPhase(sentinelPhaseID, retiredPhaseID uuid.UUID) {
	t.PhaseID = sentinelPhaseID
	t.markUnassigned()
	t.AddDomainEvent(NewTaskReassignedEvent(t, "phase", retiredPhaseID, sentinelPhaseID))
}

func (t *Task) markUnassigned() {
	if t.Status == lifecycle.StateActive || t.Status == lifecycle.StatePaused {
		t.Status = lifecycle.StateUnassigned
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
