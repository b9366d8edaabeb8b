package lifecycle

// Role states: active -> deprecated -> archived, restore only with capability.
// Templates share these semantics.
const (
	StateActive     State = "active"
	StateDeprecated State = "deprecated"
	StateArchived   State = "archived"
)

// User states
const (
	StateSuspended State = "suspended"
	StateInactive  State = "inactive"
)

// Task states
const (
	StatePaused     State = "paused"
	StateRetired    State = "retired"
	StateUnassigned State = "unassigned"
)

// RoleMachine governs role (and template) status transitions
func RoleMachine() *Machine {
	return NewMachine("role", map[State]map[Transition]State{
		StateActive: {
			TransitionDeprecate: StateDeprecated,
			TransitionArchive:   StateArchived,
		},
		StateDeprecated: {
			TransitionActivate: StateActive,
			TransitionArchive:  StateArchived,
		},
		StateArchived: {
			TransitionRestore: StateActive,
		},
	})
}

// TemplateMachine governs log template transitions. Same adjacency as
// roles, reported under its own entity type for error messages.
func TemplateMachine() *Machine {
	return NewMachine("template", map[State]map[Transition]State{
		StateActive: {
			TransitionDeprecate: StateDeprecated,
			TransitionArchive:   StateArchived,
		},
		StateDeprecated: {
			TransitionActivate: StateActive,
			TransitionArchive:  StateArchived,
		},
		StateArchived: {
			TransitionRestore: StateActive,
		},
	})
}

// UserMachine governs user status transitions
func UserMachine() *Machine {
	return NewMachine("user", map[State]map[Transition]State{
		StateActive: {
			TransitionSuspend: StateSuspended,
			TransitionRetire:  StateInactive,
			TransitionArchive: StateArchived,
		},
		StateSuspended: {
			TransitionActivate: StateActive,
			TransitionRetire:   StateInactive,
			TransitionArchive:  StateArchived,
		},
		StateInactive: {
			TransitionActivate: StateActive,
			TransitionArchive:  StateArchived,
		},
		StateArchived: {
			TransitionRestore: StateActive,
		},
	})
}

// TaskMachine governs task status transitions. The unassigned state is
// reached when a task's owner is deleted and it is re-pointed at a
// sentinel; such tasks can be activated again once a real owner exists.
func TaskMachine() *Machine {
	return NewMachine("task", map[State]map[Transition]State{
		StateActive: {
			TransitionPause:   StatePaused,
			TransitionRetire:  StateRetired,
			TransitionArchive: StateArchived,
		},
		StatePaused: {
			TransitionActivate: StateActive,
			TransitionRetire:   StateRetired,
			TransitionArchive:  StateArchived,
		},
		StateRetired: {
			TransitionArchive: StateArchived,
		},
		StateUnassigned: {
			TransitionActivate: StateActive,
			TransitionArchive:  StateArchived,
		},
		StateArchived: {
			TransitionRestore: StateActive,
		},
	})
}
