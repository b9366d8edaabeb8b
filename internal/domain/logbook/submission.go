package logbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// SubmissionStatus is the closed status set for submissions
type SubmissionStatus string

const (
	SubmissionStatusCompleted SubmissionStatus = "completed"
	SubmissionStatusPending   SubmissionStatus = "pending"
)

// DataMap is a validated field-name to value mapping stored as JSON
type DataMap map[string]any

// LogSubmission is one filled-in compliance log against a template.
// Completed submissions are immutable; corrections are recorded as new
// submissions linked through CorrectsID so the audit trail is preserved.
type LogSubmission struct {
	shared.BaseAggregateRoot
	TemplateID     uuid.UUID
	SubmissionDate time.Time
	SubmittedAt    time.Time
	SubmittedBy    uuid.UUID
	Status         SubmissionStatus
	Data           DataMap `gorm:"type:jsonb;serializer:json"`
	CorrectsID     *uuid.UUID
}

// NewLogSubmission records a completed submission. The data mapping must
// already be the sanitized output of the template's schema validation.
func NewLogSubmission(templateID uuid.UUID, submissionDate time.Time, submittedBy uuid.UUID, data DataMap) *LogSubmission {
	s := &LogSubmission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TemplateID:        templateID,
		SubmissionDate:    truncateToDate(submissionDate),
		SubmittedAt:       time.Now(),
		SubmittedBy:       submittedBy,
		Status:            SubmissionStatusCompleted,
		Data:              data,
	}

	s.AddDomainEvent(NewSubmissionRecordedEvent(s))

	return s
}

// NewPendingSubmission records a submission that is started but not yet
// complete (a partially filled form saved for later)
func NewPendingSubmission(templateID uuid.UUID, submissionDate time.Time, submittedBy uuid.UUID, data DataMap) *LogSubmission {
	s := NewLogSubmission(templateID, submissionDate, submittedBy, data)
	s.Status = SubmissionStatusPending
	s.ClearDomainEvents()
	return s
}

// Complete finalizes a pending submission with its validated data
func (s *LogSubmission) Complete(data DataMap) error {
	if s.Status == SubmissionStatusCompleted {
		return shared.ErrImmutableSubmission
	}
	s.Data = data
	s.Status = SubmissionStatusCompleted
	s.SubmittedAt = time.Now()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubmissionRecordedEvent(s))

	return nil
}

// Correct creates a replacement submission for a completed one. The
// original row is never touched.
func (s *LogSubmission) Correct(submittedBy uuid.UUID, data DataMap) (*LogSubmission, error) {
	if s.Status != SubmissionStatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only completed submissions can be corrected")
	}

	correction := NewLogSubmission(s.TemplateID, s.SubmissionDate, submittedBy, data)
	corrects := s.ID
	correction.CorrectsID = &corrects
	correction.ClearDomainEvents()
	correction.AddDomainEvent(NewSubmissionCorrectedEvent(correction, s.ID))

	return correction, nil
}

// IsCompleted reports whether the submission counts toward completion
func (s *LogSubmission) IsCompleted() bool {
	return s.Status == SubmissionStatusCompleted
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
