package logbook

import (
	"context"

	"github.com/google/uuid"
	domain "github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/kitchenops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TemplateCache is a read cache for template responses. Get returns
// (nil, nil) on a miss.
type TemplateCache interface {
	Get(ctx context.Context, id uuid.UUID) (*TemplateResponse, error)
	Set(ctx context.Context, resp *TemplateResponse) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// WithCache attaches a read cache to the service. Reads go through the
// cache; writes are invalidated asynchronously by TemplateCacheInvalidator.
func (s *TemplateService) WithCache(cache TemplateCache) *TemplateService {
	s.cache = cache
	return s
}

// TemplateCacheInvalidator drops cached templates when a template event
// arrives over the outbox relay. Invalidation is idempotent, so redelivery
// of the same event is harmless.
type TemplateCacheInvalidator struct {
	cache  TemplateCache
	logger *zap.Logger
}

// NewTemplateCacheInvalidator creates a new TemplateCacheInvalidator
func NewTemplateCacheInvalidator(cache TemplateCache, logger *zap.Logger) *TemplateCacheInvalidator {
	return &TemplateCacheInvalidator{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *TemplateCacheInvalidator) EventTypes() []string {
	return []string{
		domain.EventTypeTemplateCreated,
		domain.EventTypeTemplateActivated,
		domain.EventTypeTemplateDeprecated,
		domain.EventTypeTemplateArchived,
		domain.EventTypeTemplateVersioned,
	}
}

// Handle drops the cached entry for the event's template
func (h *TemplateCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx, event.AggregateID()); err != nil {
		h.logger.Warn("failed to invalidate template cache",
			zap.String("template_id", event.AggregateID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Ensure TemplateCacheInvalidator implements EventHandler
var _ shared.EventHandler = (*TemplateCacheInvalidator)(nil)
