package report

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/kitchenops/backend/internal/domain/shared"
)

// DirtyWindow identifies a report week whose cached or exported views
// are stale because a submission arrived inside it.
type DirtyWindow struct {
	TemplateID uuid.UUID `json:"template_id"`
	WeekStart  time.Time `json:"week_start"`
	MarkedAt   time.Time `json:"marked_at"`
}

type windowKey struct {
	templateID uuid.UUID
	weekStart  time.Time
}

// RecomputeMarker consumes submission events off the outbox relay and
// marks the affected report weeks dirty. Downstream jobs (exports,
// scheduled digests) read the dirty set instead of rescanning every
// window. Marking the same window twice collapses to one entry, so
// redelivery is harmless.
type RecomputeMarker struct {
	mu      sync.RWMutex
	windows map[windowKey]time.Time
	logger  *zap.Logger
}

// NewRecomputeMarker creates a new RecomputeMarker
func NewRecomputeMarker(logger *zap.Logger) *RecomputeMarker {
	return &RecomputeMarker{
		windows: make(map[windowKey]time.Time),
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (m *RecomputeMarker) EventTypes() []string {
	return []string{
		logbook.EventTypeSubmissionCreated,
		logbook.EventTypeSubmissionCorrected,
	}
}

// Handle marks the week containing the submission date dirty for the
// submission's template
func (m *RecomputeMarker) Handle(ctx context.Context, event shared.DomainEvent) error {
	var templateID uuid.UUID
	var submissionDate time.Time

	switch e := event.(type) {
	case *logbook.SubmissionRecordedEvent:
		templateID = e.TemplateID
		submissionDate = e.SubmissionDate
	case *logbook.SubmissionCorrectedEvent:
		templateID = e.TemplateID
		submissionDate = e.SubmissionDate
	default:
		m.logger.Warn("unexpected event payload for recompute marker",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	weekStart := weekStartOf(submissionDate)

	m.mu.Lock()
	key := windowKey{templateID: templateID, weekStart: weekStart}
	if _, seen := m.windows[key]; !seen {
		m.windows[key] = time.Now().UTC()
	}
	m.mu.Unlock()

	m.logger.Debug("report window marked dirty",
		zap.String("template_id", templateID.String()),
		zap.Time("week_start", weekStart),
		zap.String("event_type", event.EventType()),
	)
	return nil
}

// DirtyWindows returns the dirty set ordered by week then template
func (m *RecomputeMarker) DirtyWindows() []DirtyWindow {
	m.mu.RLock()
	out := make([]DirtyWindow, 0, len(m.windows))
	for key, markedAt := range m.windows {
		out = append(out, DirtyWindow{
			TemplateID: key.templateID,
			WeekStart:  key.weekStart,
			MarkedAt:   markedAt,
		})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.Before(out[j].WeekStart)
		}
		return out[i].TemplateID.String() < out[j].TemplateID.String()
	})
	return out
}

// MarkClean removes one window from the dirty set, typically after a
// recompute job has refreshed it
func (m *RecomputeMarker) MarkClean(templateID uuid.UUID, weekStart time.Time) {
	m.mu.Lock()
	delete(m.windows, windowKey{templateID: templateID, weekStart: weekStartOf(weekStart)})
	m.mu.Unlock()
}

// weekStartOf anchors a date to the Monday of its week, matching the
// Monday-to-Sunday windows the reports are queried with
func weekStartOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Ensure RecomputeMarker implements EventHandler
var _ shared.EventHandler = (*RecomputeMarker)(nil)
