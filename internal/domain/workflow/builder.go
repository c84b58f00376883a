package workflow

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition may be taken
type GuardFunc func(ctx context.Context) bool

// StateMachineBuilder collects the transition table of one machine
type StateMachineBuilder interface {
	// Configure returns the configuration for transitions leaving state
	Configure(state State) StateConfiguration

	// Build creates a machine positioned at initialState. It returns
	// ErrInvalidState when initialState is not part of this machine.
	Build(initialState State) (StateMachine, error)

	// Name identifies the machine in error messages
	Name() string
}

// StateConfiguration configures transitions for a specific source state
type StateConfiguration interface {
	// Permit allows a trigger to transition to the target state
	Permit(trigger Trigger, toState State) StateConfiguration

	// PermitIf allows a trigger to transition to the target state if the guard passes
	PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration
}

type transition struct {
	toState State
	guard   GuardFunc
}

type stateConfig struct {
	fromState   State
	transitions map[Trigger][]transition
}

type stateMachineBuilder struct {
	name           string
	configurations map[State]*stateConfig
	// members are every state the machine mentions, as source or target
	members map[State]bool
}

// NewBuilder creates a builder for a named machine
func NewBuilder(name string) StateMachineBuilder {
	return &stateMachineBuilder{
		name:           name,
		configurations: make(map[State]*stateConfig),
		members:        make(map[State]bool),
	}
}

func (b *stateMachineBuilder) Name() string {
	return b.name
}

// Configure panics on unknown states: the tables are static program data.
func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("%s: invalid state: %s", b.name, state))
	}

	cfg, ok := b.configurations[state]
	if !ok {
		cfg = &stateConfig{
			fromState:   state,
			transitions: make(map[Trigger][]transition),
		}
		b.configurations[state] = cfg
	}
	b.members[state] = true

	return &configurator{builder: b, cfg: cfg}
}

func (b *stateMachineBuilder) Build(initialState State) (StateMachine, error) {
	if !b.members[initialState] {
		return nil, fmt.Errorf("%w: %s is not a %s state", ErrInvalidState, initialState, b.name)
	}

	snapshot := make(map[State]*stateConfig, len(b.configurations))
	for state, cfg := range b.configurations {
		transitions := make(map[Trigger][]transition, len(cfg.transitions))
		for trigger, ts := range cfg.transitions {
			transitions[trigger] = append([]transition(nil), ts...)
		}
		snapshot[state] = &stateConfig{fromState: state, transitions: transitions}
	}

	return &stateMachine{
		name:           b.name,
		currentState:   initialState,
		configurations: snapshot,
	}, nil
}

type configurator struct {
	builder *stateMachineBuilder
	cfg     *stateConfig
}

func (c *configurator) Permit(trigger Trigger, toState State) StateConfiguration {
	return c.PermitIf(trigger, toState, nil)
}

func (c *configurator) PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("%s: invalid target state: %s", c.builder.name, toState))
	}

	c.cfg.transitions[trigger] = append(c.cfg.transitions[trigger], transition{
		toState: toState,
		guard:   guard,
	})
	c.builder.members[toState] = true

	return c
}
