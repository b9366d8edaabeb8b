package workforce

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskTransition(t *testing.T) {
	roleID := uuid.New()

	t.Run("active task can pause and resume", func(t *testing.T) {
		task, err := NewTask("Sanitize prep stations", roleID, uuid.Nil, uuid.Nil)
		require.NoError(t, err)

		require.NoError(t, task.Transition(lifecycle.TransitionPause))
		assert.Equal(t, lifecycle.StatePaused, task.Status)

		require.NoError(t, task.Transition(lifecycle.TransitionActivate))
		assert.Equal(t, lifecycle.StateActive, task.Status)
	})

	t.Run("retired task can only archive", func(t *testing.T) {
		task, _ := NewTask("Sanitize prep stations", roleID, uuid.Nil, uuid.Nil)
		require.NoError(t, task.Transition(lifecycle.TransitionRetire))

		assertIllegalTransition(t, task.Transition(lifecycle.TransitionActivate))
		assertIllegalTransition(t, task.Transition(lifecycle.TransitionPause))

		require.NoError(t, task.Transition(lifecycle.TransitionArchive))
		assert.True(t, task.IsArchived())
	})

	t.Run("unassigned task can be reactivated", func(t *testing.T) {
		task, _ := NewTask("Sanitize prep stations", roleID, uuid.Nil, uuid.Nil)
		task.ReassignRole(uuid.New(), roleID)
		assert.Equal(t, lifecycle.StateUnassigned, task.Status)

		require.NoError(t, task.Transition(lifecycle.TransitionActivate))
		assert.Equal(t, lifecycle.StateActive, task.Status)
	})
}

func TestTaskReassignment(t *testing.T) {
	roleID := uuid.New()
	sentinelID := uuid.New()

	t.Run("re-points the role reference and marks unassigned", func(t *testing.T) {
		task, _ := NewTask("Sanitize prep stations", roleID, uuid.Nil, uuid.Nil)
		task.ClearDomainEvents()

		task.ReassignRole(sentinelID, roleID)

		assert.Equal(t, sentinelID, task.RoleID)
		assert.Equal(t, lifecycle.StateUnassigned, task.Status)

		events := task.GetDomainEvents()
		require.Len(t, events, 1)
		reassigned, ok := events[0].(*TaskReassignedEvent)
		require.True(t, ok)
		assert.Equal(t, "role", reassigned.Reference)
		assert.Equal(t, roleID, reassigned.FromID)
		assert.Equal(t, sentinelID, reassigned.SentinelID)
	})

	t.Run("retired task keeps its status when reassigned", func(t *testing.T) {
		task, _ := NewTask("Sanitize prep stations", roleID, uuid.Nil, uuid.Nil)
		require.NoError(t, task.Transition(lifecycle.TransitionRetire))

		task.ReassignRole(sentinelID, roleID)
		assert.Equal(t, lifecycle.StateRetired, task.Status)
		assert.Equal(t, sentinelID, task.RoleID)
	})

	t.Run("assignee and phase references reassign independently", func(t *testing.T) {
		userID := uuid.New()
		phaseID := uuid.New()
		task, _ := NewTask("Sanitize prep stations", roleID, userID, phaseID)

		userSentinel := uuid.New()
		task.ReassignAssignee(userSentinel, userID)
		assert.Equal(t, userSentinel, task.AssigneeID)
		assert.Equal(t, roleID, task.RoleID)

		phaseSentinel := uuid.New()
		task.ReassignPhase(phaseSentinel, phaseID)
		assert.Equal(t, phaseSentinel, task.PhaseID)
	})
}

func TestSentinelTask(t *testing.T) {
	roleSentinel := uuid.New()
	userSentinel := uuid.New()
	phaseSentinel := uuid.New()
	sentinel := NewSentinelTask(roleSentinel, userSentinel, phaseSentinel)

	assert.True(t, sentinel.Sentinel)
	assert.True(t, sentinel.IsArchived())

	// Every reference resolves to another sentinel, never uuid.Nil
	assert.Equal(t, roleSentinel, sentinel.RoleID)
	assert.Equal(t, userSentinel, sentinel.AssigneeID)
	assert.Equal(t, phaseSentinel, sentinel.PhaseID)

	assertIllegalTransition(t, sentinel.Transition(lifecycle.TransitionArchive))
	assertIllegalTransition(t, sentinel.Transition(lifecycle.TransitionRestore, lifecycle.CapabilityRestore))
}
