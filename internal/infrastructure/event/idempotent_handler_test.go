package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kitchenops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIdempotencyStore is a map-backed store without expiry handling
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[eventID], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

func TestIdempotentHandler_SkipsDuplicateDelivery(t *testing.T) {
	inner := newTestHandler("TestEvent")
	store := newFakeIdempotencyStore()
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	event := newTestEvent("TestEvent")

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 1)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsProcessed)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsDuplicate)
}

func TestIdempotentHandler_ProcessesDistinctEvents(t *testing.T) {
	inner := newTestHandler("TestEvent")
	store := newFakeIdempotencyStore()
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), newTestEvent("TestEvent")))
	require.NoError(t, handler.Handle(context.Background(), newTestEvent("TestEvent")))

	assert.Len(t, inner.getHandled(), 2)
}

func TestIdempotentHandler_StoreFailureStillProcesses(t *testing.T) {
	inner := newTestHandler("TestEvent")
	store := newFakeIdempotencyStore()
	store.err = errors.New("store unavailable")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), newTestEvent("TestEvent")))

	assert.Len(t, inner.getHandled(), 1)
}

func TestIdempotentHandler_HandlerErrorPropagates(t *testing.T) {
	inner := newTestHandler("TestEvent")
	inner.setError(errors.New("handler failed"))
	store := newFakeIdempotencyStore()
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	err := handler.Handle(context.Background(), newTestEvent("TestEvent"))
	require.Error(t, err)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsFailed)
}

func TestIdempotentHandler_DisabledConfigBypassesStore(t *testing.T) {
	inner := newTestHandler("TestEvent")
	store := newFakeIdempotencyStore()
	handler := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)

	event := newTestEvent("TestEvent")
	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	// Without the store check, both deliveries reach the handler
	assert.Len(t, inner.getHandled(), 2)
}
