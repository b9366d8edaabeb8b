package workforce

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseRetire(t *testing.T) {
	t.Run("sets the retirement timestamp once", func(t *testing.T) {
		phase, err := NewPhase("Morning Prep", "morning-prep", 1)
		require.NoError(t, err)
		assert.False(t, phase.IsRetired())

		require.NoError(t, phase.Retire())
		require.True(t, phase.IsRetired())
		retiredAt := *phase.RetiredAt
		version := phase.Version

		require.NoError(t, phase.Retire())
		assert.Equal(t, retiredAt, *phase.RetiredAt)
		assert.Equal(t, version, phase.Version)
	})

	t.Run("restore clears the timestamp", func(t *testing.T) {
		phase, _ := NewPhase("Morning Prep", "morning-prep", 1)
		require.NoError(t, phase.Retire())
		require.NoError(t, phase.Restore())
		assert.False(t, phase.IsRetired())

		events := phase.GetDomainEvents()
		require.Len(t, events, 3)
		assert.Equal(t, EventTypePhaseRestored, events[2].EventType())
	})

	t.Run("sentinel refuses retire and restore", func(t *testing.T) {
		sentinel := NewSentinelPhase()
		assert.True(t, sentinel.IsRetired())

		assertIllegalTransition(t, sentinel.Retire())
		assertIllegalTransition(t, sentinel.Restore())
		assert.True(t, sentinel.IsRetired())
	})
}

func TestUserTransition(t *testing.T) {
	roleID := uuid.New()

	t.Run("suspend and reinstate", func(t *testing.T) {
		user, err := NewUser("Maria Lopez", "maria-lopez", "maria@example.com", roleID)
		require.NoError(t, err)

		require.NoError(t, user.Transition(lifecycle.TransitionSuspend))
		assert.Equal(t, lifecycle.StateSuspended, user.Status)

		require.NoError(t, user.Transition(lifecycle.TransitionActivate))
		assert.Equal(t, lifecycle.StateActive, user.Status)
	})

	t.Run("retire marks inactive, not archived", func(t *testing.T) {
		user, _ := NewUser("Maria Lopez", "maria-lopez", "maria@example.com", roleID)
		require.NoError(t, user.Transition(lifecycle.TransitionRetire))
		assert.Equal(t, lifecycle.StateInactive, user.Status)
		assert.False(t, user.IsArchived())
	})

	t.Run("sentinel user refuses transitions", func(t *testing.T) {
		sentinel := NewSentinelUser(uuid.New())
		assertIllegalTransition(t, sentinel.Transition(lifecycle.TransitionActivate))
		assertIllegalTransition(t, sentinel.Transition(lifecycle.TransitionArchive))
	})

	t.Run("requires a role", func(t *testing.T) {
		_, err := NewUser("Maria Lopez", "maria-lopez", "maria@example.com", uuid.Nil)
		require.Error(t, err)
	})
}
