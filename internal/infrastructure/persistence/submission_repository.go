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

// GormSubmissionRepository implements SubmissionRepository using GORM
type GormSubmissionRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db, outboxSaver: outboxSaver}
}

func (r *GormSubmissionRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create persists a new submission and its pending events atomically.
// Submissions are append-only; corrections arrive here as new rows.
func (r *GormSubmissionRepository) Create(ctx context.Context, submission *logbook.LogSubmission) error {
	events := submission.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
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

	submission.ClearDomainEvents()
	return nil
}

// Update persists changes to a pending submission and its pending
// events atomically
func (r *GormSubmissionRepository) Update(ctx context.Context, submission *logbook.LogSubmission) error {
	events := submission.GetDomainEvents()

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(submission).Error; err != nil {
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

	submission.ClearDomainEvents()
	return nil
}

// FindByID retrieves a submission by id
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*logbook.LogSubmission, error) {
	var submission logbook.LogSubmission
	if err := r.conn(ctx).First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// FindByTemplate retrieves submissions for one template inside a window
func (r *GormSubmissionRepository) FindByTemplate(ctx context.Context, templateID uuid.UUID, window logbook.SubmissionWindow) ([]*logbook.LogSubmission, error) {
	var submissions []*logbook.LogSubmission
	if err := r.conn(ctx).
		Where("template_id = ? AND submission_date >= ? AND submission_date <= ?",
			templateID, window.Start, window.End).
		Order("submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// FindInWindow retrieves submissions for a template id set inside a
// window, ordered by submitted_at
func (r *GormSubmissionRepository) FindInWindow(ctx context.Context, templateIDs []uuid.UUID, window logbook.SubmissionWindow) ([]*logbook.LogSubmission, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}

	var submissions []*logbook.LogSubmission
	if err := r.conn(ctx).
		Where("template_id IN ? AND submission_date >= ? AND submission_date <= ?",
			templateIDs, window.Start, window.End).
		Order("submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ExistsForTemplate reports whether any submission references the template
func (r *GormSubmissionRepository) ExistsForTemplate(ctx context.Context, templateID uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&logbook.LogSubmission{}).
		Where("template_id = ?", templateID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus counts submissions per status for one template in a window
func (r *GormSubmissionRepository) CountByStatus(ctx context.Context, templateID uuid.UUID, window logbook.SubmissionWindow) (completed, pending int64, err error) {
	type statusCount struct {
		Status logbook.SubmissionStatus
		Count  int64
	}

	var results []statusCount
	err = r.conn(ctx).
		Model(&logbook.LogSubmission{}).
		Select("status, count(*) as count").
		Where("template_id = ? AND submission_date >= ? AND submission_date <= ?",
			templateID, window.Start, window.End).
		Group("status").
		Scan(&results).Error
	if err != nil {
		return 0, 0, err
	}

	for _, res := range results {
		switch res.Status {
		case logbook.SubmissionStatusCompleted:
			completed = res.Count
		case logbook.SubmissionStatusPending:
			pending = res.Count
		}
	}
	return completed, pending, nil
}

// Ensure GormSubmissionRepository implements SubmissionRepository
var _ logbook.SubmissionRepository = (*GormSubmissionRepository)(nil)
