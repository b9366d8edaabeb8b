package workforce

import (
	"strings"
	"time"

	"github.com/kitchenops/backend/internal/domain/shared"
)

// Phase is a named slice of the service day (prep, service, close) that
// tasks are scheduled into. Phases carry a retirement timestamp instead
// of a status enum: a nil RetiredAt means the phase is live.
type Phase struct {
	shared.BaseAggregateRoot
	Name      string
	Slug      string `gorm:"uniqueIndex"`
	Sequence  int
	Sentinel  bool
	RetiredAt *time.Time
}

// NewPhase creates a live phase at the given sequence position
func NewPhase(name, slug string, sequence int) (*Phase, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Phase name cannot be empty")
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if sequence < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Phase sequence cannot be negative")
	}

	p := &Phase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Slug:              slug,
		Sequence:          sequence,
	}

	p.AddDomainEvent(NewPhaseCreatedEvent(p))

	return p, nil
}

// NewSentinelPhase builds the permanently retired phase placeholder
func NewSentinelPhase() *Phase {
	now := time.Now()
	return &Phase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              "To Be Assigned",
		Slug:              SentinelPhaseSlug,
		Sequence:          -1,
		Sentinel:          true,
		RetiredAt:         &now,
	}
}

// IsRetired reports whether the phase has been retired
func (p *Phase) IsRetired() bool {
	return p.RetiredAt != nil
}

// Retire sets the retirement timestamp. Repeated retires are idempotent
// and never overwrite the original timestamp. The sentinel refuses the
// call outright.
func (p *Phase) Retire() error {
	if p.Sentinel {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}
	if p.RetiredAt != nil {
		return nil
	}

	now := time.Now()
	p.RetiredAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPhaseRetiredEvent(p))

	return nil
}

// Restore clears the retirement timestamp, bringing the phase back for
// scheduling. Restoring a live phase is a no-op.
func (p *Phase) Restore() error {
	if p.Sentinel {
		return shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}
	if p.RetiredAt == nil {
		return nil
	}

	p.RetiredAt = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPhaseRestoredEvent(p))

	return nil
}
