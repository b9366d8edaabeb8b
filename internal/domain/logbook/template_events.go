package logbook

import (
	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// Aggregate type constants for the logbook domain
const (
	AggregateTypeTemplate   = "template"
	AggregateTypeSubmission = "submission"
)

// Template domain event types, named {aggregate}.{change} so downstream
// consumers can route on the pair
const (
	EventTypeTemplateCreated    = "template.created"
	EventTypeTemplateActivated  = "template.activated"
	EventTypeTemplateDeprecated = "template.deprecated"
	EventTypeTemplateArchived   = "template.archived"
	EventTypeTemplateVersioned  = "template.versioned"
)

// TemplateCreatedEvent is published when a new template is created
type TemplateCreatedEvent struct {
	shared.BaseDomainEvent
	Name      string `json:"name"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
}

// NewTemplateCreatedEvent creates a new TemplateCreatedEvent
func NewTemplateCreatedEvent(t *LogTemplate) *TemplateCreatedEvent {
	return &TemplateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTemplateCreated, AggregateTypeTemplate, t.ID),
		Name:            t.Name,
		Category:        t.Category,
		Frequency:       string(t.Frequency),
	}
}

// TemplateActivatedEvent is published when a template returns to active
type TemplateActivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewTemplateActivatedEvent creates a new TemplateActivatedEvent
func NewTemplateActivatedEvent(t *LogTemplate) *TemplateActivatedEvent {
	return &TemplateActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTemplateActivated, AggregateTypeTemplate, t.ID),
		Name:            t.Name,
	}
}

// TemplateDeprecatedEvent is published when a template is deprecated
type TemplateDeprecatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewTemplateDeprecatedEvent creates a new TemplateDeprecatedEvent
func NewTemplateDeprecatedEvent(t *LogTemplate) *TemplateDeprecatedEvent {
	return &TemplateDeprecatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTemplateDeprecated, AggregateTypeTemplate, t.ID),
		Name:            t.Name,
	}
}

// TemplateArchivedEvent is published when a template is archived
type TemplateArchivedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Category string `json:"category"`
}

// NewTemplateArchivedEvent creates a new TemplateArchivedEvent
func NewTemplateArchivedEvent(t *LogTemplate) *TemplateArchivedEvent {
	return &TemplateArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTemplateArchived, AggregateTypeTemplate, t.ID),
		Name:            t.Name,
		Category:        t.Category,
	}
}

// TemplateVersionedEvent is published when a schema change produces a
// successor template
type TemplateVersionedEvent struct {
	shared.BaseDomainEvent
	Name         string    `json:"name"`
	SupersedesID uuid.UUID `json:"supersedes_id"`
}

// NewTemplateVersionedEvent creates a new TemplateVersionedEvent
func NewTemplateVersionedEvent(successor *LogTemplate, supersedes uuid.UUID) *TemplateVersionedEvent {
	return &TemplateVersionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTemplateVersioned, AggregateTypeTemplate, successor.ID),
		Name:            successor.Name,
		SupersedesID:    supersedes,
	}
}
