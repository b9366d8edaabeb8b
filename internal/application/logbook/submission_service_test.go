package logbook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	domain "github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/kitchenops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTemplateRepository is a mock implementation of TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *domain.LogTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Update(ctx context.Context, template *domain.LogTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LogTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LogTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListActive(ctx context.Context, filter *domain.TemplateFilter) ([]*domain.LogTemplate, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.LogTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListAll(ctx context.Context, filter *domain.TemplateFilter) ([]*domain.LogTemplate, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.LogTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.LogTemplate, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*domain.LogTemplate), args.Error(1)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *domain.LogSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, submission *domain.LogSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LogSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LogSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) FindByTemplate(ctx context.Context, templateID uuid.UUID, window domain.SubmissionWindow) ([]*domain.LogSubmission, error) {
	args := m.Called(ctx, templateID, window)
	return args.Get(0).([]*domain.LogSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) FindInWindow(ctx context.Context, templateIDs []uuid.UUID, window domain.SubmissionWindow) ([]*domain.LogSubmission, error) {
	args := m.Called(ctx, templateIDs, window)
	return args.Get(0).([]*domain.LogSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) ExistsForTemplate(ctx context.Context, templateID uuid.UUID) (bool, error) {
	args := m.Called(ctx, templateID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) CountByStatus(ctx context.Context, templateID uuid.UUID, window domain.SubmissionWindow) (int64, int64, error) {
	args := m.Called(ctx, templateID, window)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

var coolerSchemaJSON = []byte(`{
	"type": "object",
	"properties": {
		"cooler_temp": {"type": "number", "minimum": 34, "maximum": 40},
		"checked_by": {"type": "string", "minLength": 1}
	},
	"required": ["cooler_temp", "checked_by"]
}`)

func newCoolerTemplate(t *testing.T) *domain.LogTemplate {
	t.Helper()
	tmpl, err := domain.NewLogTemplate("Cooler Temperature Log", domain.CategoryTemperature, domain.FrequencyTwiceDaily, coolerSchemaJSON, nil)
	require.NoError(t, err)
	tmpl.ClearDomainEvents()
	return tmpl
}

func TestSubmissionServiceSubmit(t *testing.T) {
	logger := zap.NewNop()

	t.Run("accepts valid data and stores the sanitized mapping", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
		submissionRepo.On("Create", mock.Anything, mock.AnythingOfType("*logbook.LogSubmission")).Return(nil)

		resp, err := service.Submit(context.Background(), SubmitRequest{
			TemplateID:     tmpl.ID,
			SubmissionDate: time.Date(2026, 3, 3, 8, 30, 0, 0, time.UTC),
			SubmittedBy:    uuid.New(),
			Data:           map[string]any{"cooler_temp": "38", "checked_by": "maria"},
		})
		require.NoError(t, err)

		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, 38.0, resp.Data["cooler_temp"])
		submissionRepo.AssertExpectations(t)
	})

	t.Run("rejects out-of-range values listing every violated field", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		_, err := service.Submit(context.Background(), SubmitRequest{
			TemplateID:     tmpl.ID,
			SubmissionDate: time.Now(),
			SubmittedBy:    uuid.New(),
			Data:           map[string]any{"cooler_temp": 45.0, "checked_by": ""},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.Len(t, domainErr.Fields, 2)
		submissionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown template id maps to UNKNOWN_TEMPLATE", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		id := uuid.New()
		templateRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := service.Submit(context.Background(), SubmitRequest{
			TemplateID:     id,
			SubmissionDate: time.Now(),
			SubmittedBy:    uuid.New(),
			Data:           map[string]any{},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UNKNOWN_TEMPLATE", domainErr.Code)
	})

	t.Run("archived template accepts no submissions", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		require.NoError(t, tmpl.Transition("archive"))
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		_, err := service.Submit(context.Background(), SubmitRequest{
			TemplateID:     tmpl.ID,
			SubmissionDate: time.Now(),
			SubmittedBy:    uuid.New(),
			Data:           map[string]any{"cooler_temp": 38.0, "checked_by": "maria"},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UNKNOWN_TEMPLATE", domainErr.Code)
	})
}

func TestSubmissionServiceDrafts(t *testing.T) {
	logger := zap.NewNop()

	t.Run("draft may omit required fields", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		var saved *domain.LogSubmission
		submissionRepo.On("Create", mock.Anything, mock.AnythingOfType("*logbook.LogSubmission")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*domain.LogSubmission)
			}).Return(nil)

		resp, err := service.SaveDraft(context.Background(), SubmitRequest{
			TemplateID:     tmpl.ID,
			SubmissionDate: time.Date(2026, 3, 3, 8, 30, 0, 0, time.UTC),
			SubmittedBy:    uuid.New(),
			Data:           map[string]any{"checked_by": "maria"},
		})
		require.NoError(t, err)

		assert.Equal(t, "pending", resp.Status)
		require.NotNil(t, saved)
		assert.Empty(t, saved.GetDomainEvents(), "drafts emit no events until completed")
	})

	t.Run("draft still rejects undeclared properties and bad values", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		_, err := service.SaveDraft(context.Background(), SubmitRequest{
			TemplateID:     tmpl.ID,
			SubmissionDate: time.Now(),
			SubmittedBy:    uuid.New(),
			Data:           map[string]any{"cooler_temp": 99.0, "ghost": true},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.Len(t, domainErr.Fields, 2)
		submissionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("completing a draft enforces the full schema and flips the status", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		draft := domain.NewPendingSubmission(tmpl.ID, time.Now(), uuid.New(), domain.DataMap{"checked_by": "maria"})

		submissionRepo.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		var updated *domain.LogSubmission
		submissionRepo.On("Update", mock.Anything, mock.AnythingOfType("*logbook.LogSubmission")).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*domain.LogSubmission)
			}).Return(nil)

		resp, err := service.Complete(context.Background(), draft.ID, CompleteRequest{
			Data: map[string]any{"cooler_temp": 38.0, "checked_by": "maria"},
		})
		require.NoError(t, err)

		assert.Equal(t, "completed", resp.Status)
		require.NotNil(t, updated)
		assert.True(t, updated.IsCompleted())
		assert.Len(t, updated.GetDomainEvents(), 1, "completion raises the recorded event")
	})

	t.Run("completion with missing required fields is rejected", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		draft := domain.NewPendingSubmission(tmpl.ID, time.Now(), uuid.New(), domain.DataMap{"checked_by": "maria"})

		submissionRepo.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		_, err := service.Complete(context.Background(), draft.ID, CompleteRequest{
			Data: map[string]any{"checked_by": "maria"},
		})
		require.Error(t, err)

		assert.Equal(t, domain.SubmissionStatusPending, draft.Status)
		submissionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("a completed submission cannot be completed again", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		original := domain.NewLogSubmission(tmpl.ID, time.Now(), uuid.New(), domain.DataMap{"cooler_temp": 36.0, "checked_by": "maria"})

		submissionRepo.On("FindByID", mock.Anything, original.ID).Return(original, nil)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		_, err := service.Complete(context.Background(), original.ID, CompleteRequest{
			Data: map[string]any{"cooler_temp": 37.0, "checked_by": "maria"},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrImmutableSubmission))
		submissionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestSubmissionServiceCorrect(t *testing.T) {
	logger := zap.NewNop()

	t.Run("records a linked correction", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		original := domain.NewLogSubmission(tmpl.ID, time.Now(), uuid.New(), domain.DataMap{"cooler_temp": 36.0, "checked_by": "maria"})

		submissionRepo.On("FindByID", mock.Anything, original.ID).Return(original, nil)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
		submissionRepo.On("Create", mock.Anything, mock.AnythingOfType("*logbook.LogSubmission")).Return(nil)

		resp, err := service.Correct(context.Background(), original.ID, CorrectRequest{
			SubmittedBy: uuid.New(),
			Data:        map[string]any{"cooler_temp": 37.0, "checked_by": "maria"},
		})
		require.NoError(t, err)

		require.NotNil(t, resp.CorrectsID)
		assert.Equal(t, original.ID, *resp.CorrectsID)
		assert.NotEqual(t, original.ID, resp.ID)
	})

	t.Run("corrections are validated like submissions", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		submissionRepo := new(MockSubmissionRepository)
		service := NewSubmissionService(templateRepo, submissionRepo, logger)

		tmpl := newCoolerTemplate(t)
		original := domain.NewLogSubmission(tmpl.ID, time.Now(), uuid.New(), domain.DataMap{"cooler_temp": 36.0, "checked_by": "maria"})

		submissionRepo.On("FindByID", mock.Anything, original.ID).Return(original, nil)
		templateRepo.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

		_, err := service.Correct(context.Background(), original.ID, CorrectRequest{
			SubmittedBy: uuid.New(),
			Data:        map[string]any{"cooler_temp": 99.0, "checked_by": "maria"},
		})
		require.Error(t, err)
		submissionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
