package logbook

import (
	"testing"

	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchemaJSON = []byte(`{
	"type": "object",
	"properties": {
		"cooler_temp": {"type": "number", "minimum": 34, "maximum": 40},
		"checked_by": {"type": "string", "minLength": 1}
	},
	"required": ["cooler_temp", "checked_by"]
}`)

func newTestTemplate(t *testing.T) *LogTemplate {
	t.Helper()
	tmpl, err := NewLogTemplate("Cooler Temperature Log", CategoryTemperature, FrequencyTwiceDaily, testSchemaJSON, nil)
	require.NoError(t, err)
	return tmpl
}

func TestNewLogTemplate(t *testing.T) {
	t.Run("creates an active template with a parsed schema", func(t *testing.T) {
		tmpl := newTestTemplate(t)

		assert.Equal(t, lifecycle.StateActive, tmpl.Status)
		assert.True(t, tmpl.AcceptsSubmissions())
		assert.Nil(t, tmpl.SupersedesID)

		schema, err := tmpl.Schema()
		require.NoError(t, err)
		assert.True(t, schema.IsRequired("cooler_temp"))

		events := tmpl.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeTemplateCreated, events[0].EventType())
	})

	t.Run("rejects a malformed schema", func(t *testing.T) {
		_, err := NewLogTemplate("Broken", CategoryTemperature, FrequencyDaily, []byte(`{"type":"array"}`), nil)
		require.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewLogTemplate("  ", CategoryTemperature, FrequencyDaily, testSchemaJSON, nil)
		require.Error(t, err)
	})

	t.Run("rejects empty category", func(t *testing.T) {
		_, err := NewLogTemplate("Cooler Log", "", FrequencyDaily, testSchemaJSON, nil)
		require.Error(t, err)
	})
}

func TestLogTemplateLazySchema(t *testing.T) {
	// Simulates a template loaded from persistence without a parsed schema
	tmpl := &LogTemplate{SchemaJSON: testSchemaJSON}

	schema, err := tmpl.Schema()
	require.NoError(t, err)
	_, ok := schema.Field("cooler_temp")
	assert.True(t, ok)

	again, err := tmpl.Schema()
	require.NoError(t, err)
	assert.Same(t, schema, again)
}

func TestLogTemplateTransition(t *testing.T) {
	t.Run("deprecate then archive", func(t *testing.T) {
		tmpl := newTestTemplate(t)
		tmpl.ClearDomainEvents()

		require.NoError(t, tmpl.Transition(lifecycle.TransitionDeprecate))
		assert.Equal(t, lifecycle.StateDeprecated, tmpl.Status)
		assert.True(t, tmpl.AcceptsSubmissions())

		require.NoError(t, tmpl.Transition(lifecycle.TransitionArchive))
		assert.Equal(t, lifecycle.StateArchived, tmpl.Status)
		assert.False(t, tmpl.AcceptsSubmissions())
		require.NotNil(t, tmpl.DeletedAt)
	})

	t.Run("repeated archive is an idempotent no-op", func(t *testing.T) {
		tmpl := newTestTemplate(t)
		require.NoError(t, tmpl.Transition(lifecycle.TransitionArchive))
		deletedAt := *tmpl.DeletedAt
		version := tmpl.Version
		events := len(tmpl.GetDomainEvents())

		require.NoError(t, tmpl.Transition(lifecycle.TransitionArchive))
		assert.Equal(t, deletedAt, *tmpl.DeletedAt)
		assert.Equal(t, version, tmpl.Version)
		assert.Len(t, tmpl.GetDomainEvents(), events)
	})

	t.Run("archived template cannot be activated without restore capability", func(t *testing.T) {
		tmpl := newTestTemplate(t)
		require.NoError(t, tmpl.Transition(lifecycle.TransitionArchive))

		err := tmpl.Transition(lifecycle.TransitionActivate)
		require.Error(t, err)
		assert.Equal(t, lifecycle.StateArchived, tmpl.Status)
	})

	t.Run("privileged restore reactivates and clears soft delete", func(t *testing.T) {
		tmpl := newTestTemplate(t)
		require.NoError(t, tmpl.Transition(lifecycle.TransitionArchive))

		require.Error(t, tmpl.Transition(lifecycle.TransitionRestore))

		require.NoError(t, tmpl.Transition(lifecycle.TransitionRestore, lifecycle.CapabilityRestore))
		assert.Equal(t, lifecycle.StateActive, tmpl.Status)
		assert.Nil(t, tmpl.DeletedAt)
	})
}

func TestLogTemplateNewVersion(t *testing.T) {
	widerSchema := []byte(`{
		"type": "object",
		"properties": {
			"cooler_temp": {"type": "number", "minimum": 32, "maximum": 41},
			"checked_by": {"type": "string", "minLength": 1}
		},
		"required": ["cooler_temp", "checked_by"]
	}`)

	t.Run("successor gets a fresh id and supersedes link", func(t *testing.T) {
		original := newTestTemplate(t)
		successor, err := original.NewVersion(widerSchema, nil)
		require.NoError(t, err)

		assert.NotEqual(t, original.ID, successor.ID)
		require.NotNil(t, successor.SupersedesID)
		assert.Equal(t, original.ID, *successor.SupersedesID)
		assert.Equal(t, original.Name, successor.Name)
		assert.Equal(t, lifecycle.StateActive, successor.Status)

		events := successor.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeTemplateVersioned, events[0].EventType())
	})

	t.Run("original is deprecated so only the successor lists as active", func(t *testing.T) {
		original := newTestTemplate(t)
		_, err := original.NewVersion(widerSchema, nil)
		require.NoError(t, err)

		assert.Equal(t, lifecycle.StateDeprecated, original.Status)
		assert.True(t, original.AcceptsSubmissions())
	})

	t.Run("original schema is untouched by versioning", func(t *testing.T) {
		original := newTestTemplate(t)
		_, err := original.NewVersion(widerSchema, nil)
		require.NoError(t, err)

		schema, err := original.Schema()
		require.NoError(t, err)
		field, _ := schema.Field("cooler_temp")
		num := field.(NumberField)
		assert.Equal(t, 34.0, *num.Minimum)
	})

	t.Run("bad successor schema leaves the original active", func(t *testing.T) {
		original := newTestTemplate(t)
		_, err := original.NewVersion([]byte(`{"type":"object"}`), nil)
		require.Error(t, err)
		assert.Equal(t, lifecycle.StateActive, original.Status)
	})
}
