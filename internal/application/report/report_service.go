package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/logbook"
	domain "github.com/kitchenops/backend/internal/domain/report"
	"github.com/kitchenops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportService computes derived views over submissions. All reports
// are read-only and never mutate source data.
type ReportService struct {
	templateRepo   logbook.TemplateRepository
	submissionRepo logbook.SubmissionRepository
	schedule       domain.ScheduleRules
	rates          domain.MealRates
	compliance     domain.ComplianceRules
	logger         *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	templateRepo logbook.TemplateRepository,
	submissionRepo logbook.SubmissionRepository,
	schedule domain.ScheduleRules,
	rates domain.MealRates,
	compliance domain.ComplianceRules,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		templateRepo:   templateRepo,
		submissionRepo: submissionRepo,
		schedule:       schedule,
		rates:          rates,
		compliance:     compliance,
		logger:         logger,
	}
}

// WindowRequest bounds a report query
type WindowRequest struct {
	StartDate time.Time `form:"start_date" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02" binding:"required"`
}

func (r WindowRequest) window() (logbook.SubmissionWindow, error) {
	if r.EndDate.Before(r.StartDate) {
		return logbook.SubmissionWindow{}, shared.NewDomainError("INVALID_INPUT", "end_date cannot precede start_date")
	}
	return logbook.SubmissionWindow{Start: r.StartDate, End: r.EndDate}, nil
}

// WeeklyCompletion computes per-template completion for active templates
func (s *ReportService) WeeklyCompletion(ctx context.Context, req WindowRequest) ([]domain.TemplateCompletion, error) {
	window, err := req.window()
	if err != nil {
		return nil, err
	}

	templates, err := s.templateRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindInWindow(ctx, templateIDs(templates), window)
	if err != nil {
		return nil, err
	}

	return domain.WeeklyCompletion(window, templates, submissions, s.schedule), nil
}

// ReimbursableMeals prices meal counts over the window
func (s *ReportService) ReimbursableMeals(ctx context.Context, req WindowRequest) (*domain.ReimbursableMealsReport, error) {
	window, err := req.window()
	if err != nil {
		return nil, err
	}

	// Retired meal templates stay in scope: revenue for meals already
	// served does not disappear when the form is superseded
	templates, err := s.templateRepo.ListAll(ctx, &logbook.TemplateFilter{Category: logbook.CategoryReimbursableMeal})
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindInWindow(ctx, templateIDs(templates), window)
	if err != nil {
		return nil, err
	}

	report := domain.ReimbursableMeals(window, submissions, s.rates)
	return &report, nil
}

// ComplianceViolations applies category rules over every submission in
// the window, whatever the status of the template it was recorded under
func (s *ReportService) ComplianceViolations(ctx context.Context, req WindowRequest) (*domain.ComplianceReport, error) {
	window, err := req.window()
	if err != nil {
		return nil, err
	}

	templates, err := s.templateRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindInWindow(ctx, templateIDs(templates), window)
	if err != nil {
		return nil, err
	}

	report := domain.ComplianceViolations(templates, submissions, s.compliance)
	return &report, nil
}

// LogHistory returns raw submissions grouped by the requested templates.
// Unlike the other reports it resolves the ids the caller names, so
// retired templates stay auditable.
func (s *ReportService) LogHistory(ctx context.Context, req WindowRequest, ids []uuid.UUID) ([]domain.TemplateHistory, error) {
	window, err := req.window()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "template_ids is required")
	}

	templates, err := s.templateRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindInWindow(ctx, templateIDs(templates), window)
	if err != nil {
		return nil, err
	}

	return domain.LogHistory(templates, submissions), nil
}

func templateIDs(templates []*logbook.LogTemplate) []uuid.UUID {
	ids := make([]uuid.UUID, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	return ids
}
