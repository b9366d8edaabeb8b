package workforce

import (
	"strings"
	"time"

	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// Role is a kitchen staff role (sous-chef, dishwasher) that tasks and
// users reference. Archiving a role never deletes it; referencing tasks
// are re-pointed at the role sentinel in the same transaction.
type Role struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string `gorm:"uniqueIndex"`
	Description string
	Status      lifecycle.State
	Sentinel    bool
	DeletedAt   *time.Time
}

// NewRole creates an active role
func NewRole(name, slug, description string) (*Role, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Role name cannot be empty")
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	r := &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Slug:              slug,
		Description:       strings.TrimSpace(description),
		Status:            lifecycle.StateActive,
	}

	r.AddDomainEvent(NewRoleCreatedEvent(r))

	return r, nil
}

// NewSentinelRole builds the permanently archived role placeholder.
// It exists so archived roles' tasks keep a valid owner reference.
func NewSentinelRole() *Role {
	now := time.Now()
	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              "To Be Assigned",
		Slug:              SentinelRoleSlug,
		Description:       "Placeholder owner for tasks whose role was deleted",
		Status:            lifecycle.StateArchived,
		Sentinel:          true,
		DeletedAt:         &now,
	}
}

// IsArchived reports whether the role is soft-deleted
func (r *Role) IsArchived() bool {
	return r.Status == lifecycle.StateArchived
}

// Transition applies a lifecycle transition. The sentinel refuses every
// transition; repeated archives on regular roles are idempotent no-ops.
func (r *Role) Transition(tr lifecycle.Transition, caps ...lifecycle.Capability) error {
	if r.Sentinel {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}
	if tr == lifecycle.TransitionArchive && r.Status == lifecycle.StateArchived {
		return nil
	}

	next, err := lifecycle.RoleMachine().Next(r.Status, tr, caps...)
	if err != nil {
		return err
	}

	r.Status = next
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	switch tr {
	case lifecycle.TransitionArchive:
		if r.DeletedAt == nil {
			now := time.Now()
			r.DeletedAt = &now
		}
		r.AddDomainEvent(NewRoleArchivedEvent(r))
	case lifecycle.TransitionDeprecate:
		r.AddDomainEvent(NewRoleDeprecatedEvent(r))
	case lifecycle.TransitionActivate, lifecycle.TransitionRestore:
		r.DeletedAt = nil
		r.AddDomainEvent(NewRoleActivatedEvent(r))
	}

	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_INPUT", "Slug cannot be empty")
	}
	for _, c := range slug {
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' {
			continue
		}
		return shared.NewDomainError("INVALID_INPUT", "Slug must contain only lowercase letters, digits and hyphens")
	}
	return nil
}
