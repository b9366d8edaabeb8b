package lifecycle

import (
	"fmt"

	"github.com/kitchenops/backend/internal/domain/shared"
)

// State is a lifecycle status value from an entity's closed enum
type State string

// Transition names a lifecycle transition request
type Transition string

const (
	TransitionActivate  Transition = "activate"
	TransitionSuspend   Transition = "suspend"
	TransitionPause     Transition = "pause"
	TransitionDeprecate Transition = "deprecate"
	TransitionRetire    Transition = "retire"
	TransitionArchive   Transition = "archive"
	TransitionRestore   Transition = "restore"
)

// Capability gates privileged transitions
type Capability string

// CapabilityRestore is required to bring an archived entity back to life
const CapabilityRestore Capability = "lifecycle:restore"

// Machine validates transitions against a fixed adjacency table.
// One machine instance exists per entity type and is immutable after
// construction, so it is safe for concurrent use.
type Machine struct {
	entityType string
	adjacency  map[State]map[Transition]State
	privileged map[Transition]Capability
}

// NewMachine builds a machine for an entity type from its adjacency table
func NewMachine(entityType string, adjacency map[State]map[Transition]State) *Machine {
	return &Machine{
		entityType: entityType,
		adjacency:  adjacency,
		privileged: map[Transition]Capability{
			TransitionRestore: CapabilityRestore,
		},
	}
}

// EntityType returns the entity type this machine governs
func (m *Machine) EntityType() string {
	return m.entityType
}

// Next returns the state reached by applying t from the current state.
// Privileged transitions require the matching capability among caps.
func (m *Machine) Next(from State, t Transition, caps ...Capability) (State, error) {
	if required, ok := m.privileged[t]; ok && !hasCapability(caps, required) {
		return "", shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("%s transition %q requires capability %q", m.entityType, t, required))
	}

	targets, ok := m.adjacency[from]
	if !ok {
		return "", shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("%s has no transitions from state %q", m.entityType, from))
	}

	next, ok := targets[t]
	if !ok {
		return "", shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("%s cannot %s from state %q", m.entityType, t, from))
	}

	return next, nil
}

// CanTransition reports whether t is valid from the given state,
// ignoring capability requirements.
func (m *Machine) CanTransition(from State, t Transition) bool {
	targets, ok := m.adjacency[from]
	if !ok {
		return false
	}
	_, ok = targets[t]
	return ok
}

// States returns every state reachable in the adjacency table
func (m *Machine) States() []State {
	seen := make(map[State]bool)
	states := make([]State, 0, len(m.adjacency))
	for from, targets := range m.adjacency {
		if !seen[from] {
			seen[from] = true
			states = append(states, from)
		}
		for _, to := range targets {
			if !seen[to] {
				seen[to] = true
				states = append(states, to)
			}
		}
	}
	return states
}

func hasCapability(caps []Capability, required Capability) bool {
	for _, c := range caps {
		if c == required {
			return true
		}
	}
	return false
}
