package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/shared"
	"github.com/kitchenops/backend/internal/domain/workforce"
	"gorm.io/gorm"
)

// GormPhaseRepository implements PhaseRepository using GORM
type GormPhaseRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormPhaseRepository creates a new GormPhaseRepository
func NewGormPhaseRepository(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormPhaseRepository {
	return &GormPhaseRepository{db: db, outboxSaver: outboxSaver}
}

func (r *GormPhaseRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create persists a new phase and its pending events atomically
func (r *GormPhaseRepository) Create(ctx context.Context, phase *workforce.Phase) error {
	events := phase.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(phase).Error; err != nil {
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

	phase.ClearDomainEvents()
	return nil
}

// Update persists phase changes and pending events atomically
func (r *GormPhaseRepository) Update(ctx context.Context, phase *workforce.Phase) error {
	events := phase.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workforce.Phase{}).
			Where("id = ? AND version < ?", phase.ID, phase.Version).
			Updates(map[string]interface{}{
				"name":       phase.Name,
				"slug":       phase.Slug,
				"sequence":   phase.Sequence,
				"retired_at": phase.RetiredAt,
				"version":    phase.Version,
				"updated_at": phase.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The phase has been modified by another writer")
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

	phase.ClearDomainEvents()
	return nil
}

// FindByID retrieves a phase by id
func (r *GormPhaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Phase, error) {
	var phase workforce.Phase
	if err := r.conn(ctx).First(&phase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &phase, nil
}

// FindBySlug retrieves a phase by slug
func (r *GormPhaseRepository) FindBySlug(ctx context.Context, slug string) (*workforce.Phase, error) {
	var phase workforce.Phase
	if err := r.conn(ctx).First(&phase, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &phase, nil
}

// FindSentinel returns the permanently retired phase placeholder
func (r *GormPhaseRepository) FindSentinel(ctx context.Context) (*workforce.Phase, error) {
	var phase workforce.Phase
	if err := r.conn(ctx).First(&phase, "sentinel = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &phase, nil
}

// ListLive returns phases without a retirement timestamp ordered by sequence
func (r *GormPhaseRepository) ListLive(ctx context.Context) ([]*workforce.Phase, error) {
	var phases []*workforce.Phase
	if err := r.conn(ctx).
		Where("retired_at IS NULL").
		Order("sequence ASC").
		Find(&phases).Error; err != nil {
		return nil, err
	}
	return phases, nil
}

// Ensure GormPhaseRepository implements PhaseRepository
var _ workforce.PhaseRepository = (*GormPhaseRepository)(nil)
