package workforce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// User is a kitchen staff member who submits compliance logs and owns
// tasks. Archiving a user re-points their open tasks at the user
// sentinel so task history never dangles.
type User struct {
	shared.BaseAggregateRoot
	Name      string
	Slug      string `gorm:"uniqueIndex"`
	Email     string
	RoleID    uuid.UUID
	Status    lifecycle.State
	Sentinel  bool
	DeletedAt *time.Time
}

// NewUser creates an active user attached to a role
func NewUser(name, slug, email string, roleID uuid.UUID) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "User name cannot be empty")
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if roleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User requires a role")
	}

	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Slug:              slug,
		Email:             strings.TrimSpace(email),
		RoleID:            roleID,
		Status:            lifecycle.StateActive,
	}

	u.AddDomainEvent(NewUserCreatedEvent(u))

	return u, nil
}

// NewSentinelUser builds the permanently archived user placeholder
func NewSentinelUser(sentinelRoleID uuid.UUID) *User {
	now := time.Now()
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              "To Be Assigned",
		Slug:              SentinelUserSlug,
		RoleID:            sentinelRoleID,
		Status:            lifecycle.StateArchived,
		Sentinel:          true,
		DeletedAt:         &now,
	}
}

// IsArchived reports whether the user is soft-deleted
func (u *User) IsArchived() bool {
	return u.Status == lifecycle.StateArchived
}

// Transition applies a lifecycle transition with the same sentinel and
// idempotent-archive rules as roles
func (u *User) Transition(tr lifecycle.Transition, caps ...lifecycle.Capability) error {
	if u.Sentinel {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}
	if tr == lifecycle.TransitionArchive && u.Status == lifecycle.StateArchived {
		return nil
	}

	next, err := lifecycle.UserMachine().Next(u.Status, tr, caps...)
	if err != nil {
		return err
	}

	u.Status = next
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	switch tr {
	case lifecycle.TransitionArchive:
		if u.DeletedAt == nil {
			now := time.Now()
			u.DeletedAt = &now
		}
		u.AddDomainEvent(NewUserArchivedEvent(u))
	case lifecycle.TransitionSuspend:
		u.AddDomainEvent(NewUserSuspendedEvent(u))
	case lifecycle.TransitionRetire:
		u.AddDomainEvent(NewUserDeactivatedEvent(u))
	case lifecycle.TransitionActivate, lifecycle.TransitionRestore:
		u.DeletedAt = nil
		u.AddDomainEvent(NewUserActivatedEvent(u))
	}

	return nil
}

// ReassignRole points the user at a replacement role, used when the
// current role is archived
func (u *User) ReassignRole(roleID uuid.UUID) {
	u.RoleID = roleID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
