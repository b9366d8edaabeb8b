package logbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// Submission domain event types
const (
	EventTypeSubmissionCreated   = "submission.created"
	EventTypeSubmissionCorrected = "submission.corrected"
)

// SubmissionRecordedEvent is published when a submission is accepted.
// The payload carries enough to reconstruct the change without
// re-querying the source record.
type SubmissionRecordedEvent struct {
	shared.BaseDomainEvent
	TemplateID     uuid.UUID `json:"template_id"`
	SubmissionDate time.Time `json:"submission_date"`
	SubmittedBy    uuid.UUID `json:"submitted_by"`
	Status         string    `json:"status"`
	Data           DataMap   `json:"data"`
}

// NewSubmissionRecordedEvent creates a new SubmissionRecordedEvent
func NewSubmissionRecordedEvent(s *LogSubmission) *SubmissionRecordedEvent {
	return &SubmissionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubmissionCreated, AggregateTypeSubmission, s.ID),
		TemplateID:      s.TemplateID,
		SubmissionDate:  s.SubmissionDate,
		SubmittedBy:     s.SubmittedBy,
		Status:          string(s.Status),
		Data:            s.Data,
	}
}

// SubmissionCorrectedEvent is published when a correction supersedes a
// completed submission
type SubmissionCorrectedEvent struct {
	shared.BaseDomainEvent
	TemplateID     uuid.UUID `json:"template_id"`
	CorrectsID     uuid.UUID `json:"corrects_id"`
	SubmissionDate time.Time `json:"submission_date"`
	SubmittedBy    uuid.UUID `json:"submitted_by"`
	Data           DataMap   `json:"data"`
}

// NewSubmissionCorrectedEvent creates a new SubmissionCorrectedEvent
func NewSubmissionCorrectedEvent(s *LogSubmission, corrects uuid.UUID) *SubmissionCorrectedEvent {
	return &SubmissionCorrectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubmissionCorrected, AggregateTypeSubmission, s.ID),
		TemplateID:      s.TemplateID,
		CorrectsID:      corrects,
		SubmissionDate:  s.SubmissionDate,
		SubmittedBy:     s.SubmittedBy,
		Data:            s.Data,
	}
}
