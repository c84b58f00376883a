package workflow

import (
	"context"
	"fmt"
	"sort"
)

// StateMachine tracks the current state of one entity and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger has at least one transition from the current state
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, moving to the target state when permitted
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns the triggers configured for the current state, sorted
	PermittedTriggers() []Trigger

	// IsTerminal reports whether no trigger leaves the current state
	IsTerminal() bool
}

type stateMachine struct {
	name           string
	currentState   State
	configurations map[State]*stateConfig
}

func (m *stateMachine) State() State {
	return m.currentState
}

func (m *stateMachine) CanFire(trigger Trigger) bool {
	cfg, ok := m.configurations[m.currentState]
	if !ok {
		return false
	}
	return len(cfg.transitions[trigger]) > 0
}

func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	cfg, ok := m.configurations[m.currentState]
	if !ok || len(cfg.transitions[trigger]) == 0 {
		return fmt.Errorf("%w: %s cannot %s from %s", ErrInvalidTransition, m.name, trigger, m.currentState)
	}

	for _, t := range cfg.transitions[trigger] {
		if t.guard == nil || t.guard(ctx) {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: %s trigger %s from %s", ErrGuardFailed, m.name, trigger, m.currentState)
}

func (m *stateMachine) PermittedTriggers() []Trigger {
	cfg, ok := m.configurations[m.currentState]
	if !ok {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(cfg.transitions))
	for trigger, ts := range cfg.transitions {
		if len(ts) > 0 {
			triggers = append(triggers, trigger)
		}
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })

	return triggers
}

func (m *stateMachine) IsTerminal() bool {
	return len(m.PermittedTriggers()) == 0
}
