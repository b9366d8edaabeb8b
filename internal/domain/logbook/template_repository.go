package logbook

import (
	"context"

	"github.com/google/uuid"
)

// TemplateFilter narrows template listings
type TemplateFilter struct {
	Category string
}

// TemplateRepository defines persistence for log templates
type TemplateRepository interface {
	// Create persists a new template and its pending events atomically
	Create(ctx context.Context, template *LogTemplate) error
	// Update persists template changes and pending events atomically
	Update(ctx context.Context, template *LogTemplate) error
	// FindByID retrieves a template by id
	FindByID(ctx context.Context, id uuid.UUID) (*LogTemplate, error)
	// ListActive returns active templates ordered by name, optionally
	// filtered by category
	ListActive(ctx context.Context, filter *TemplateFilter) ([]*LogTemplate, error)
	// ListAll returns templates of every status ordered by name,
	// optionally filtered by category. Used by reports that must cover
	// submissions recorded against deprecated or archived templates.
	ListAll(ctx context.Context, filter *TemplateFilter) ([]*LogTemplate, error)
	// ListByIDs retrieves templates by id set
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*LogTemplate, error)
}
