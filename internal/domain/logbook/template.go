package logbook

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// Frequency declares how often a template expects submissions
type Frequency string

const (
	FrequencyPerMeal    Frequency = "per_meal"
	FrequencyDaily      Frequency = "daily"
	FrequencyTwiceDaily Frequency = "twice_daily"
	FrequencyPerService Frequency = "per_service"
	FrequencyWeekly     Frequency = "weekly"
)

// ParseFrequency validates a frequency value
func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(value) {
	case FrequencyPerMeal, FrequencyDaily, FrequencyTwiceDaily, FrequencyPerService, FrequencyWeekly:
		return Frequency(value), nil
	default:
		return "", shared.NewDomainError("INVALID_INPUT", "Unknown frequency: "+value)
	}
}

// Template categories with dedicated compliance rules
const (
	CategoryTemperature      = "temperature"
	CategoryReimbursableMeal = "reimbursable_meal"
	CategoryCleaning         = "cleaning"
	CategoryReceiving        = "receiving"
)

// LogTemplate is the aggregate root for a compliance log schema definition.
// The form schema is parsed and validated once at creation; once a template
// has at least one submission the schema is frozen and changes require a
// new version with a fresh id (SupersedesID links the chain).
type LogTemplate struct {
	shared.BaseAggregateRoot
	Name         string
	Category     string
	Frequency    Frequency
	SchemaJSON   []byte `gorm:"type:jsonb;column:form_schema"`
	UISchemaJSON []byte `gorm:"type:jsonb;column:ui_schema"`
	Status       lifecycle.State
	SupersedesID *uuid.UUID
	DeletedAt    *time.Time

	schema *FormSchema `gorm:"-"`
}

// NewLogTemplate creates an active template, rejecting malformed schemas
func NewLogTemplate(name, category string, frequency Frequency, schemaJSON, uiSchemaJSON []byte) (*LogTemplate, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(category) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Template category cannot be empty")
	}

	schema, err := ParseFormSchema(schemaJSON)
	if err != nil {
		return nil, err
	}

	t := &LogTemplate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Category:          strings.TrimSpace(category),
		Frequency:         frequency,
		SchemaJSON:        schemaJSON,
		UISchemaJSON:      uiSchemaJSON,
		Status:            lifecycle.StateActive,
		schema:            schema,
	}

	t.AddDomainEvent(NewTemplateCreatedEvent(t))

	return t, nil
}

// Schema returns the parsed form schema, parsing lazily after a load
// from persistence. Stored schemas were validated at creation, so a
// parse failure here indicates corruption.
func (t *LogTemplate) Schema() (*FormSchema, error) {
	if t.schema != nil {
		return t.schema, nil
	}
	schema, err := ParseFormSchema(t.SchemaJSON)
	if err != nil {
		return nil, err
	}
	t.schema = schema
	return schema, nil
}

// IsActive reports whether the template accepts listing as active
func (t *LogTemplate) IsActive() bool {
	return t.Status == lifecycle.StateActive
}

// IsArchived reports whether the template refuses new submissions
func (t *LogTemplate) IsArchived() bool {
	return t.Status == lifecycle.StateArchived
}

// AcceptsSubmissions reports whether new submissions may be validated
// against this template. Deprecated templates still accept submissions;
// archived ones do not.
func (t *LogTemplate) AcceptsSubmissions() bool {
	return t.Status != lifecycle.StateArchived
}

// Transition applies a lifecycle transition. Archive sets the soft-delete
// timestamp once; repeated archives are idempotent no-ops.
func (t *LogTemplate) Transition(tr lifecycle.Transition, caps ...lifecycle.Capability) error {
	if tr == lifecycle.TransitionArchive && t.Status == lifecycle.StateArchived {
		return nil
	}

	next, err := lifecycle.TemplateMachine().Next(t.Status, tr, caps...)
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
		t.AddDomainEvent(NewTemplateArchivedEvent(t))
	case lifecycle.TransitionDeprecate:
		t.AddDomainEvent(NewTemplateDeprecatedEvent(t))
	case lifecycle.TransitionActivate, lifecycle.TransitionRestore:
		t.DeletedAt = nil
		t.AddDomainEvent(NewTemplateActivatedEvent(t))
	}

	return nil
}

// NewVersion creates a successor template with a fresh id carrying the
// changed schema. The receiver is deprecated in the same step so only the
// successor is listed as active; historical submissions keep validating
// against the schema they were created under.
func (t *LogTemplate) NewVersion(schemaJSON, uiSchemaJSON []byte) (*LogTemplate, error) {
	successor, err := NewLogTemplate(t.Name, t.Category, t.Frequency, schemaJSON, uiSchemaJSON)
	if err != nil {
		return nil, err
	}

	supersedes := t.ID
	successor.SupersedesID = &supersedes
	successor.ClearDomainEvents()
	successor.AddDomainEvent(NewTemplateVersionedEvent(successor, t.ID))

	if t.Status == lifecycle.StateActive {
		if err := t.Transition(lifecycle.TransitionDeprecate); err != nil {
			return nil, err
		}
	}

	return successor, nil
}

func validateTemplateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Template name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Template name cannot exceed 200 characters")
	}
	return nil
}
