package event

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockOutboxRepoForService is a mock implementation for testing OutboxService
type mockOutboxRepoForService struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newMockOutboxRepoForService() *mockOutboxRepoForService {
	return &mockOutboxRepoForService{
		entries: make(map[uuid.UUID]*shared.OutboxEntry),
	}
}

func (r *mockOutboxRepoForService) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *mockOutboxRepoForService) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *mockOutboxRepoForService) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *mockOutboxRepoForService) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	total := int64(len(result))

	start := (page - 1) * pageSize
	if start >= len(result) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *mockOutboxRepoForService) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	return nil, nil
}

func (r *mockOutboxRepoForService) FindUndeliveredByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]*shared.OutboxEntry, error) {
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.AggregateID == aggregateID && e.Status != shared.OutboxStatusSent {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *mockOutboxRepoForService) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *mockOutboxRepoForService) ReleaseToPending(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if e, ok := r.entries[id]; ok && e.Status == shared.OutboxStatusProcessing {
			e.Status = shared.OutboxStatusPending
		}
	}
	return nil
}

func (r *mockOutboxRepoForService) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *mockOutboxRepoForService) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *mockOutboxRepoForService) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func deadEntry() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "submission.created",
		AggregateID:   uuid.New(),
		AggregateType: "submission",
		Status:        shared.OutboxStatusDead,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     "consumer unavailable",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestOutboxService_GetDeadLetterEntries(t *testing.T) {
	logger := zap.NewNop()
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo, logger)

	for i := 0; i < 5; i++ {
		entry := deadEntry()
		repo.entries[entry.ID] = entry
	}
	pendingEntry := &shared.OutboxEntry{ID: uuid.New(), Status: shared.OutboxStatusPending}
	repo.entries[pendingEntry.ID] = pendingEntry

	result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Len(t, result.Entries, 5)
	for _, e := range result.Entries {
		assert.Equal(t, string(shared.OutboxStatusDead), e.Status)
	}
}

func TestOutboxService_RetryDeadEntry(t *testing.T) {
	logger := zap.NewNop()
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo, logger)

	entry := deadEntry()
	repo.entries[entry.ID] = entry

	dto, err := service.RetryDeadEntry(context.Background(), entry.ID)
	require.NoError(t, err)

	assert.Equal(t, string(shared.OutboxStatusPending), dto.Status)
	assert.Zero(t, dto.RetryCount)
	assert.Empty(t, dto.LastError)

	t.Run("non-dead entries cannot be retried", func(t *testing.T) {
		sent := &shared.OutboxEntry{ID: uuid.New(), Status: shared.OutboxStatusSent}
		repo.entries[sent.ID] = sent

		_, err := service.RetryDeadEntry(context.Background(), sent.ID)
		require.Error(t, err)
	})
}

func TestOutboxService_RetryAllDeadEntries(t *testing.T) {
	logger := zap.NewNop()
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo, logger)

	for i := 0; i < 3; i++ {
		entry := deadEntry()
		repo.entries[entry.ID] = entry
	}

	count, err := service.RetryAllDeadEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	counts, _ := repo.CountByStatus(context.Background())
	assert.Zero(t, counts[shared.OutboxStatusDead])
	assert.Equal(t, int64(3), counts[shared.OutboxStatusPending])
}

func TestOutboxService_GetStats(t *testing.T) {
	logger := zap.NewNop()
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo, logger)

	repo.entries[uuid.New()] = &shared.OutboxEntry{ID: uuid.New(), Status: shared.OutboxStatusPending}
	repo.entries[uuid.New()] = &shared.OutboxEntry{ID: uuid.New(), Status: shared.OutboxStatusSent}
	dead := deadEntry()
	repo.entries[dead.ID] = dead

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Sent)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(3), stats.Total)
}

func TestOutboxService_GetUndeliveredForAggregate(t *testing.T) {
	logger := zap.NewNop()
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo, logger)

	aggregateID := uuid.New()
	first := &shared.OutboxEntry{ID: uuid.New(), AggregateID: aggregateID, Status: shared.OutboxStatusPending, CreatedAt: time.Now().Add(-time.Minute)}
	second := &shared.OutboxEntry{ID: uuid.New(), AggregateID: aggregateID, Status: shared.OutboxStatusFailed, CreatedAt: time.Now()}
	delivered := &shared.OutboxEntry{ID: uuid.New(), AggregateID: aggregateID, Status: shared.OutboxStatusSent}
	repo.entries[first.ID] = first
	repo.entries[second.ID] = second
	repo.entries[delivered.ID] = delivered

	dtos, err := service.GetUndeliveredForAggregate(context.Background(), aggregateID)
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, first.ID, dtos[0].ID)
	assert.Equal(t, second.ID, dtos[1].ID)
}
