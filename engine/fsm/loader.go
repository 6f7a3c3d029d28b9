package fsm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/clinuxrulz/flying-shooter/event"
)

var (
	ErrUnknownState   = errors.New("unknown state")
	ErrUnknownGuard   = errors.New("unknown guard")
	ErrUnknownAction  = errors.New("unknown action")
	ErrUnknownTrigger = errors.New("unknown trigger")
	ErrBackward       = errors.New("backward transition")
)

// triggers resolves configured trigger names
var triggers = map[string]event.EventType{
	"Tick": TriggerTick,
}

func init() {
	for t := event.EventSynchronizing; t <= event.EventRoundStarted; t++ {
		triggers[t.String()] = t
	}
}

// LoadConfig parses a TOML graph and replaces the machine's graph
// Guards and actions must be registered before loading
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return fmt.Errorf("failed to decode FSM config: %w", err)
	}
	if len(config.States) == 0 {
		return fmt.Errorf("FSM config declares no states")
	}

	// Rank comes from the declared order; undeclared states rank after it, sorted by name
	names := make([]string, 0, len(config.States))
	for name := range config.States {
		names = append(names, name)
	}
	sort.Strings(names)

	rank := make(map[string]int, len(names))
	for i, name := range config.Order {
		if _, ok := config.States[name]; !ok {
			return fmt.Errorf("order lists '%s': %w", name, ErrUnknownState)
		}
		rank[name] = i
	}
	next := len(config.Order)
	for _, name := range names {
		if _, ok := rank[name]; !ok {
			rank[name] = next
			next++
		}
	}

	nameToID := make(map[string]StateID, len(names))
	for i, name := range names {
		nameToID[name] = StateID(i + 1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	nodes := make(map[StateID]*Node[T], len(names))
	for _, name := range names {
		cfg := config.States[name]
		node := &Node[T]{ID: nameToID[name], Name: name, Rank: rank[name]}

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' on_exit: %w", name, err)
		}

		for _, tc := range cfg.Transitions {
			targetID, ok := nameToID[tc.Target]
			if !ok {
				return fmt.Errorf("state '%s' target '%s': %w", name, tc.Target, ErrUnknownState)
			}
			if rank[tc.Target] <= rank[name] {
				return fmt.Errorf("state '%s' -> '%s': %w", name, tc.Target, ErrBackward)
			}
			trigger, ok := triggers[tc.Trigger]
			if !ok {
				return fmt.Errorf("state '%s' trigger '%s': %w", name, tc.Trigger, ErrUnknownTrigger)
			}
			t := Transition[T]{TargetID: targetID, Trigger: trigger, GuardName: tc.Guard}
			if tc.Guard != "" {
				guard, ok := m.guardReg[tc.Guard]
				if !ok {
					return fmt.Errorf("state '%s' guard '%s': %w", name, tc.Guard, ErrUnknownGuard)
				}
				t.Guard = guard
			}
			node.Transitions = append(node.Transitions, t)
		}
		nodes[node.ID] = node
	}

	initialID, ok := nameToID[config.InitialState]
	if !ok {
		return fmt.Errorf("initial state '%s': %w", config.InitialState, ErrUnknownState)
	}

	m.nodes = nodes
	m.initialID = initialID
	m.activeID = StateNone
	m.timeInState = 0
	m.transitions = 0
	return nil
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, fmt.Errorf("action '%s': %w", cfg.Action, ErrUnknownAction)
		}
		actions = append(actions, Action[T]{Func: fn, Args: cfg})
	}
	return actions, nil
}
