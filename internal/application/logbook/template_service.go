package logbook

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	domain "github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/kitchenops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TemplateService handles template registry operations
type TemplateService struct {
	templateRepo   domain.TemplateRepository
	submissionRepo domain.SubmissionRepository
	txManager      shared.TransactionManager
	cache          TemplateCache
	logger         *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	templateRepo domain.TemplateRepository,
	submissionRepo domain.SubmissionRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *TemplateService {
	return &TemplateService{
		templateRepo:   templateRepo,
		submissionRepo: submissionRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// Create stores a new template definition, rejecting malformed schemas
func (s *TemplateService) Create(ctx context.Context, req CreateTemplateRequest) (*TemplateResponse, error) {
	frequency, err := domain.ParseFrequency(req.Frequency)
	if err != nil {
		return nil, err
	}

	template, err := domain.NewLogTemplate(req.Name, req.Category, frequency, req.FormSchema, req.UISchema)
	if err != nil {
		return nil, err
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		s.logger.Error("Failed to create template", zap.Error(err), zap.String("name", req.Name))
		return nil, err
	}

	s.logger.Info("Template created",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name),
		zap.String("category", template.Category),
	)

	resp := toTemplateResponse(template)
	return &resp, nil
}

// Get retrieves a template by id, consulting the read cache first when
// one is attached
func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*TemplateResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("template cache lookup failed", zap.Error(err), zap.String("id", id.String()))
		} else if cached != nil {
			return cached, nil
		}
	}

	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTemplateResponse(template)

	if s.cache != nil {
		if err := s.cache.Set(ctx, &resp); err != nil {
			s.logger.Warn("template cache store failed", zap.Error(err), zap.String("id", id.String()))
		}
	}
	return &resp, nil
}

// ListActive returns active templates ordered by name, optionally
// filtered by category
func (s *TemplateService) ListActive(ctx context.Context, category string) ([]TemplateResponse, error) {
	var filter *domain.TemplateFilter
	if category != "" {
		filter = &domain.TemplateFilter{Category: category}
	}

	templates, err := s.templateRepo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		responses[i] = toTemplateResponse(t)
	}
	return responses, nil
}

// Retire transitions a template out of active service. Past submissions
// stay valid against the schema they were created under.
func (s *TemplateService) Retire(ctx context.Context, id uuid.UUID, req RetireTemplateRequest) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var transition lifecycle.Transition
	switch req.Transition {
	case "deprecate":
		transition = lifecycle.TransitionDeprecate
	case "archive":
		transition = lifecycle.TransitionArchive
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Transition must be deprecate or archive")
	}

	if err := template.Transition(transition); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		s.logger.Error("Failed to retire template", zap.Error(err), zap.String("id", id.String()))
		return nil, err
	}

	s.logger.Info("Template retired",
		zap.String("id", id.String()),
		zap.String("transition", req.Transition),
		zap.String("status", string(template.Status)),
	)

	resp := toTemplateResponse(template)
	return &resp, nil
}

// Restore brings an archived template back to active. The caller must
// hold the restore capability.
func (s *TemplateService) Restore(ctx context.Context, id uuid.UUID, caps ...lifecycle.Capability) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := template.Transition(lifecycle.TransitionRestore, caps...); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, err
	}

	resp := toTemplateResponse(template)
	return &resp, nil
}

// UpdateSchema changes a template's form schema. Templates without
// submissions are updated in place; once the first submission exists
// the schema is frozen and the change produces a successor template
// with a fresh id.
func (s *TemplateService) UpdateSchema(ctx context.Context, id uuid.UUID, req UpdateSchemaRequest) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	used, err := s.submissionRepo.ExistsForTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if !used {
		if _, err := domain.ParseFormSchema(req.FormSchema); err != nil {
			return nil, err
		}
		template.SchemaJSON = req.FormSchema
		template.UISchemaJSON = req.UISchema
		template.IncrementVersion()
		if err := s.templateRepo.Update(ctx, template); err != nil {
			return nil, err
		}
		resp := toTemplateResponse(template)
		return &resp, nil
	}

	successor, err := template.NewVersion(req.FormSchema, req.UISchema)
	if err != nil {
		return nil, err
	}

	// Deprecating the original and inserting its successor commit
	// together: a failed insert must not strand the original deprecated
	// with no active replacement
	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.templateRepo.Update(ctx, template); err != nil {
			return err
		}
		return s.templateRepo.Create(ctx, successor)
	})
	if err != nil {
		s.logger.Error("Failed to version template", zap.Error(err), zap.String("supersedes", id.String()))
		return nil, err
	}

	s.logger.Info("Template versioned",
		zap.String("supersedes", id.String()),
		zap.String("successor", successor.ID.String()),
	)

	resp := toTemplateResponse(successor)
	return &resp, nil
}

// resolveForSubmission loads a template that can accept submissions
func resolveForSubmission(ctx context.Context, repo domain.TemplateRepository, id uuid.UUID) (*domain.LogTemplate, error) {
	template, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownTemplate
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
			return nil, shared.ErrUnknownTemplate
		}
		return nil, err
	}
	if !template.AcceptsSubmissions() {
		return nil, shared.ErrUnknownTemplate
	}
	return template, nil
}
