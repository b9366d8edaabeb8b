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

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormUserRepository {
	return &GormUserRepository{db: db, outboxSaver: outboxSaver}
}

func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create persists a new user and its pending events atomically
func (r *GormUserRepository) Create(ctx context.Context, user *workforce.User) error {
	events := user.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
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

	user.ClearDomainEvents()
	return nil
}

// Update persists user changes and pending events atomically
func (r *GormUserRepository) Update(ctx context.Context, user *workforce.User) error {
	events := user.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workforce.User{}).
			Where("id = ? AND version < ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"name":       user.Name,
				"slug":       user.Slug,
				"email":      user.Email,
				"role_id":    user.RoleID,
				"status":     user.Status,
				"deleted_at": user.DeletedAt,
				"version":    user.Version,
				"updated_at": user.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The user has been modified by another writer")
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

	user.ClearDomainEvents()
	return nil
}

// FindByID retrieves a user by id
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.User, error) {
	var user workforce.User
	if err := r.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindBySlug retrieves a user by slug
func (r *GormUserRepository) FindBySlug(ctx context.Context, slug string) (*workforce.User, error) {
	var user workforce.User
	if err := r.conn(ctx).First(&user, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindSentinel returns the permanently archived user placeholder
func (r *GormUserRepository) FindSentinel(ctx context.Context) (*workforce.User, error) {
	var user workforce.User
	if err := r.conn(ctx).First(&user, "sentinel = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListActive returns active users ordered by name
func (r *GormUserRepository) ListActive(ctx context.Context) ([]*workforce.User, error) {
	var users []*workforce.User
	if err := r.conn(ctx).
		Where("status = ?", lifecycle.StateActive).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByRole returns non-archived users referencing the role
func (r *GormUserRepository) ListByRole(ctx context.Context, roleID uuid.UUID) ([]*workforce.User, error) {
	var users []*workforce.User
	if err := r.conn(ctx).
		Where("role_id = ? AND status <> ?", roleID, lifecycle.StateArchived).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Ensure GormUserRepository implements UserRepository
var _ workforce.UserRepository = (*GormUserRepository)(nil)
