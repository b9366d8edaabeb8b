package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/kitchenops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormTemplateRepository {
	return &GormTemplateRepository{db: db, outboxSaver: outboxSaver}
}

func (r *GormTemplateRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create persists a new template and its pending events atomically
func (r *GormTemplateRepository) Create(ctx context.Context, template *logbook.LogTemplate) error {
	events := template.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	template.ClearDomainEvents()
	return nil
}

// Update persists template changes and pending events atomically. The
// version column guards against concurrent writers.
func (r *GormTemplateRepository) Update(ctx context.Context, template *logbook.LogTemplate) error {
	events := template.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&logbook.LogTemplate{}).
			Where("id = ? AND version < ?", template.ID, template.Version).
			Updates(map[string]interface{}{
				"name":          template.Name,
				"category":      template.Category,
				"frequency":     template.Frequency,
				"form_schema":   template.SchemaJSON,
				"ui_schema":     template.UISchemaJSON,
				"status":        template.Status,
				"supersedes_id": template.SupersedesID,
				"deleted_at":    template.DeletedAt,
				"version":       template.Version,
				"updated_at":    template.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The template has been modified by another writer")
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	template.ClearDomainEvents()
	return nil
}

// FindByID retrieves a template by id
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*logbook.LogTemplate, error) {
	var template logbook.LogTemplate
	if err := r.conn(ctx).First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// ListActive returns active templates ordered by name
func (r *GormTemplateRepository) ListActive(ctx context.Context, filter *logbook.TemplateFilter) ([]*logbook.LogTemplate, error) {
	query := r.conn(ctx).
		Where("status = ?", "active").
		Order("name ASC")

	if filter != nil && filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var templates []*logbook.LogTemplate
	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// ListAll retrieves templates regardless of status. Reports over
// historical submissions need deprecated and archived templates too.
func (r *GormTemplateRepository) ListAll(ctx context.Context, filter *logbook.TemplateFilter) ([]*logbook.LogTemplate, error) {
	query := r.conn(ctx).Order("name ASC")

	if filter != nil && filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var templates []*logbook.LogTemplate
	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// ListByIDs retrieves templates by id set. Retired templates are
// included so history queries stay auditable.
func (r *GormTemplateRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*logbook.LogTemplate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var templates []*logbook.LogTemplate
	if err := r.conn(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Ensure GormTemplateRepository implements TemplateRepository
var _ logbook.TemplateRepository = (*GormTemplateRepository)(nil)
