package event

import (
	"github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/kitchenops/backend/internal/domain/workforce"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Logbook domain - template events
	serializer.Register(logbook.EventTypeTemplateCreated, &logbook.TemplateCreatedEvent{})
	serializer.Register(logbook.EventTypeTemplateActivated, &logbook.TemplateActivatedEvent{})
	serializer.Register(logbook.EventTypeTemplateDeprecated, &logbook.TemplateDeprecatedEvent{})
	serializer.Register(logbook.EventTypeTemplateArchived, &logbook.TemplateArchivedEvent{})
	serializer.Register(logbook.EventTypeTemplateVersioned, &logbook.TemplateVersionedEvent{})

	// Logbook domain - submission events
	serializer.Register(logbook.EventTypeSubmissionCreated, &logbook.SubmissionRecordedEvent{})
	serializer.Register(logbook.EventTypeSubmissionCorrected, &logbook.SubmissionCorrectedEvent{})

	// Workforce domain - role events
	serializer.Register(workforce.EventTypeRoleCreated, &workforce.RoleEvent{})
	serializer.Register(workforce.EventTypeRoleActivated, &workforce.RoleEvent{})
	serializer.Register(workforce.EventTypeRoleDeprecated, &workforce.RoleEvent{})
	serializer.Register(workforce.EventTypeRoleArchived, &workforce.RoleEvent{})

	// Workforce domain - user events
	serializer.Register(workforce.EventTypeUserCreated, &workforce.UserEvent{})
	serializer.Register(workforce.EventTypeUserActivated, &workforce.UserEvent{})
	serializer.Register(workforce.EventTypeUserSuspended, &workforce.UserEvent{})
	serializer.Register(workforce.EventTypeUserDeactivated, &workforce.UserEvent{})
	serializer.Register(workforce.EventTypeUserArchived, &workforce.UserEvent{})

	// Workforce domain - task events
	serializer.Register(workforce.EventTypeTaskCreated, &workforce.TaskEvent{})
	serializer.Register(workforce.EventTypeTaskActivated, &workforce.TaskEvent{})
	serializer.Register(workforce.EventTypeTaskPaused, &workforce.TaskEvent{})
	serializer.Register(workforce.EventTypeTaskRetired, &workforce.TaskEvent{})
	serializer.Register(workforce.EventTypeTaskArchived, &workforce.TaskEvent{})
	serializer.Register(workforce.EventTypeTaskReassigned, &workforce.TaskReassignedEvent{})

	// Workforce domain - phase events
	serializer.Register(workforce.EventTypePhaseCreated, &workforce.PhaseEvent{})
	serializer.Register(workforce.EventTypePhaseRetired, &workforce.PhaseEvent{})
	serializer.Register(workforce.EventTypePhaseRestored, &workforce.PhaseEvent{})
}
