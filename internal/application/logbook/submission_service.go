package logbook

import (
	"context"

	"github.com/google/uuid"
	domain "github.com/kitchenops/backend/internal/domain/logbook"
	"go.uber.org/zap"
)

// SubmissionService validates and records log submissions
type SubmissionService struct {
	templateRepo   domain.TemplateRepository
	submissionRepo domain.SubmissionRepository
	logger         *zap.Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	templateRepo domain.TemplateRepository,
	submissionRepo domain.SubmissionRepository,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		templateRepo:   templateRepo,
		submissionRepo: submissionRepo,
		logger:         logger,
	}
}

// Submit validates candidate data against the template schema and
// records the submission. The repository persists the row and its
// outbox event in one transaction.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmissionResponse, error) {
	template, err := resolveForSubmission(ctx, s.templateRepo, req.TemplateID)
	if err != nil {
		return nil, err
	}

	schema, err := template.Schema()
	if err != nil {
		s.logger.Error("Stored template schema failed to parse",
			zap.Error(err), zap.String("template_id", template.ID.String()))
		return nil, err
	}

	sanitized, err := schema.Validate(req.Data)
	if err != nil {
		return nil, err
	}

	submission := domain.NewLogSubmission(req.TemplateID, req.SubmissionDate, req.SubmittedBy, sanitized)

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		s.logger.Error("Failed to record submission",
			zap.Error(err), zap.String("template_id", req.TemplateID.String()))
		return nil, err
	}

	s.logger.Info("Submission recorded",
		zap.String("id", submission.ID.String()),
		zap.String("template_id", req.TemplateID.String()),
		zap.Time("submission_date", submission.SubmissionDate),
	)

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// SaveDraft records a partially filled submission so the form can be
// finished later. Present values must satisfy their field constraints
// but required fields may still be missing. Drafts do not count toward
// completion and emit no events until completed.
func (s *SubmissionService) SaveDraft(ctx context.Context, req SubmitRequest) (*SubmissionResponse, error) {
	template, err := resolveForSubmission(ctx, s.templateRepo, req.TemplateID)
	if err != nil {
		return nil, err
	}

	schema, err := template.Schema()
	if err != nil {
		s.logger.Error("Stored template schema failed to parse",
			zap.Error(err), zap.String("template_id", template.ID.String()))
		return nil, err
	}

	sanitized, err := schema.ValidateDraft(req.Data)
	if err != nil {
		return nil, err
	}

	draft := domain.NewPendingSubmission(req.TemplateID, req.SubmissionDate, req.SubmittedBy, sanitized)

	if err := s.submissionRepo.Create(ctx, draft); err != nil {
		s.logger.Error("Failed to save draft",
			zap.Error(err), zap.String("template_id", req.TemplateID.String()))
		return nil, err
	}

	s.logger.Info("Draft saved",
		zap.String("id", draft.ID.String()),
		zap.String("template_id", req.TemplateID.String()),
	)

	resp := toSubmissionResponse(draft)
	return &resp, nil
}

// Complete finalizes a pending submission. The final data must pass the
// full schema validation; completing an already completed submission is
// rejected.
func (s *SubmissionService) Complete(ctx context.Context, submissionID uuid.UUID, req CompleteRequest) (*SubmissionResponse, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindByID(ctx, submission.TemplateID)
	if err != nil {
		return nil, err
	}

	schema, err := template.Schema()
	if err != nil {
		return nil, err
	}

	sanitized, err := schema.Validate(req.Data)
	if err != nil {
		return nil, err
	}

	if err := submission.Complete(sanitized); err != nil {
		return nil, err
	}

	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		s.logger.Error("Failed to complete submission",
			zap.Error(err), zap.String("id", submissionID.String()))
		return nil, err
	}

	s.logger.Info("Submission completed",
		zap.String("id", submission.ID.String()),
		zap.String("template_id", submission.TemplateID.String()),
	)

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// Correct records a replacement for a completed submission, validated
// against the same template. The original row is left untouched.
func (s *SubmissionService) Correct(ctx context.Context, submissionID uuid.UUID, req CorrectRequest) (*SubmissionResponse, error) {
	original, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindByID(ctx, original.TemplateID)
	if err != nil {
		return nil, err
	}

	schema, err := template.Schema()
	if err != nil {
		return nil, err
	}

	sanitized, err := schema.Validate(req.Data)
	if err != nil {
		return nil, err
	}

	correction, err := original.Correct(req.SubmittedBy, sanitized)
	if err != nil {
		return nil, err
	}

	if err := s.submissionRepo.Create(ctx, correction); err != nil {
		s.logger.Error("Failed to record correction",
			zap.Error(err), zap.String("corrects", submissionID.String()))
		return nil, err
	}

	s.logger.Info("Correction recorded",
		zap.String("id", correction.ID.String()),
		zap.String("corrects", submissionID.String()),
	)

	resp := toSubmissionResponse(correction)
	return &resp, nil
}

// Get retrieves a submission by id
func (s *SubmissionService) Get(ctx context.Context, id uuid.UUID) (*SubmissionResponse, error) {
	submission, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ListByTemplate retrieves a template's submissions inside a window
func (s *SubmissionService) ListByTemplate(ctx context.Context, templateID uuid.UUID, window domain.SubmissionWindow) ([]SubmissionResponse, error) {
	if _, err := s.templateRepo.FindByID(ctx, templateID); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindByTemplate(ctx, templateID, window)
	if err != nil {
		return nil, err
	}

	responses := make([]SubmissionResponse, len(submissions))
	for i, sub := range submissions {
		responses[i] = toSubmissionResponse(sub)
	}
	return responses, nil
}
