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

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormTaskRepository {
	return &GormTaskRepository{db: db, outboxSaver: outboxSaver}
}

func (r *GormTaskRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create persists a new task and its pending events atomically
func (r *GormTaskRepository) Create(ctx context.Context, task *workforce.Task) error {
	events := task.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
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

	task.ClearDomainEvents()
	return nil
}

// Update persists task changes and pending events atomically. Sentinel
// reassignments arrive here inside the archive transaction carried in ctx.
func (r *GormTaskRepository) Update(ctx context.Context, task *workforce.Task) error {
	events := task.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workforce.Task{}).
			Where("id = ? AND version < ?", task.ID, task.Version).
			Updates(map[string]interface{}{
				"title":       task.Title,
				"role_id":     task.RoleID,
				"assignee_id": task.AssigneeID,
				"phase_id":    task.PhaseID,
				"status":      task.Status,
				"deleted_at":  task.DeletedAt,
				"version":     task.Version,
				"updated_at":  task.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The task has been modified by another writer")
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

	task.ClearDomainEvents()
	return nil
}

// FindByID retrieves a task by id
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Task, error) {
	var task workforce.Task
	if err := r.conn(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindSentinel returns the permanently archived task placeholder
func (r *GormTaskRepository) FindSentinel(ctx context.Context) (*workforce.Task, error) {
	var task workforce.Task
	if err := r.conn(ctx).First(&task, "sentinel = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListActive returns active tasks ordered by title
func (r *GormTaskRepository) ListActive(ctx context.Context) ([]*workforce.Task, error) {
	var tasks []*workforce.Task
	if err := r.conn(ctx).
		Where("status = ?", lifecycle.StateActive).
		Order("title ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByRole returns non-archived tasks owned by the role
func (r *GormTaskRepository) ListByRole(ctx context.Context, roleID uuid.UUID) ([]*workforce.Task, error) {
	return r.listByReference(ctx, "role_id", roleID)
}

// ListByAssignee returns non-archived tasks assigned to the user
func (r *GormTaskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*workforce.Task, error) {
	return r.listByReference(ctx, "assignee_id", userID)
}

// ListByPhase returns non-archived tasks scheduled in the phase
func (r *GormTaskRepository) ListByPhase(ctx context.Context, phaseID uuid.UUID) ([]*workforce.Task, error) {
	return r.listByReference(ctx, "phase_id", phaseID)
}

func (r *GormTaskRepository) listByReference(ctx context.Context, column string, id uuid.UUID) ([]*workforce.Task, error) {
	var tasks []*workforce.Task
	if err := r.conn(ctx).
		Where(column+" = ? AND status <> ?", id, lifecycle.StateArchived).
		Order("title ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByRole counts non-archived tasks still referencing the role
func (r *GormTaskRepository) CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&workforce.Task{}).
		Where("role_id = ? AND status <> ?", roleID, lifecycle.StateArchived).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTaskRepository implements TaskRepository
var _ workforce.TaskRepository = (*GormTaskRepository)(nil)
