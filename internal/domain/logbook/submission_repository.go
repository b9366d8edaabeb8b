package logbook

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubmissionWindow bounds a report or listing query by submission_date
type SubmissionWindow struct {
	Start time.Time
	End   time.Time
}

// SubmissionRepository defines persistence for log submissions
type SubmissionRepository interface {
	// Create persists a new submission and its pending events atomically
	Create(ctx context.Context, submission *LogSubmission) error
	// Update persists changes to a pending submission and its pending
	// events atomically. Completed rows never come back through here;
	// corrections are new rows via Create.
	Update(ctx context.Context, submission *LogSubmission) error
	// FindByID retrieves a submission by id
	FindByID(ctx context.Context, id uuid.UUID) (*LogSubmission, error)
	// FindByTemplate retrieves submissions for one template inside a window
	FindByTemplate(ctx context.Context, templateID uuid.UUID, window SubmissionWindow) ([]*LogSubmission, error)
	// FindInWindow retrieves submissions for a template id set inside a
	// window, ordered by submitted_at
	FindInWindow(ctx context.Context, templateIDs []uuid.UUID, window SubmissionWindow) ([]*LogSubmission, error)
	// ExistsForTemplate reports whether any submission references the
	// template; it gates in-place schema mutation
	ExistsForTemplate(ctx context.Context, templateID uuid.UUID) (bool, error)
	// CountByStatus counts submissions per status for one template in a window
	CountByStatus(ctx context.Context, templateID uuid.UUID, window SubmissionWindow) (completed, pending int64, err error)
}
