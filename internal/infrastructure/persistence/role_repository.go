package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/kitchenops/backend/internal/domain/shared"
	"github.com/kitchenops/backend/internal/domain/workforce"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormRoleRepository {
	return &GormRoleRepository{db: db, outboxSaver: outboxSaver}
}

func (r *GormRoleRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create persists a new role and its pending events atomically
func (r *GormRoleRepository) Create(ctx context.Context, role *workforce.Role) error {
	events := role.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
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

	role.ClearDomainEvents()
	return nil
}

// Update persists role changes and pending events atomically
func (r *GormRoleRepository) Update(ctx context.Context, role *workforce.Role) error {
	events := role.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workforce.Role{}).
			Where("id = ? AND version < ?", role.ID, role.Version).
			Updates(map[string]interface{}{
				"name":        role.Name,
				"slug":        role.Slug,
				"description": role.Description,
				"status":      role.Status,
				"deleted_at":  role.DeletedAt,
				"version":     role.Version,
				"updated_at":  role.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The role has been modified by another writer")
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

	role.ClearDomainEvents()
	return nil
}

// FindByID retrieves a role by id
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Role, error) {
	var role workforce.Role
	if err := r.conn(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindBySlug retrieves a role by slug
func (r *GormRoleRepository) FindBySlug(ctx context.Context, slug string) (*workforce.Role, error) {
	var role workforce.Role
	if err := r.conn(ctx).First(&role, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindSentinel returns the permanently archived role placeholder
func (r *GormRoleRepository) FindSentinel(ctx context.Context) (*workforce.Role, error) {
	var role workforce.Role
	if err := r.conn(ctx).First(&role, "sentinel = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ListActive returns active roles ordered by name
func (r *GormRoleRepository) ListActive(ctx context.Context) ([]*workforce.Role, error) {
	var roles []*workforce.Role
	if err := r.conn(ctx).
		Where("status = ?", lifecycle.StateActive).
		Order("name ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Ensure GormRoleRepository implements RoleRepository
var _ workforce.RoleRepository = (*GormRoleRepository)(nil)
