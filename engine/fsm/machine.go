package fsm

import (
	"fmt"
	"time"

	"github.com/clinuxrulz/flying-shooter/event"
)

// NewMachine creates an empty machine; register guards and actions, then LoadConfig
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes:     make(map[StateID]*Node[T]),
		guardReg:  make(map[string]GuardFunc[T]),
		actionReg: make(map[string]ActionFunc[T]),
	}
}

// RegisterGuard adds a predicate function to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Init enters the initial state and runs its OnEnter actions
func (m *Machine[T]) Init(ctx T) error {
	m.mu.Lock()
	node, ok := m.nodes[m.initialID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("FSM has no initial state loaded")
	}
	m.activeID = node.ID
	m.timeInState = 0
	m.mu.Unlock()

	runActions(ctx, node.OnEnter)
	return nil
}

// Update advances time in state and takes the first Tick transition whose guard passes
// Returns true if a transition happened
func (m *Machine[T]) Update(ctx T, dt time.Duration) bool {
	m.mu.Lock()
	node, ok := m.nodes[m.activeID]
	if !ok {
		m.mu.Unlock()
		return false
	}
	m.timeInState += dt
	m.mu.Unlock()

	return m.fire(ctx, node, TriggerTick)
}

// HandleEvent takes the first transition on trigger whose guard passes
func (m *Machine[T]) HandleEvent(ctx T, trigger event.EventType) bool {
	m.mu.RLock()
	node, ok := m.nodes[m.activeID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return m.fire(ctx, node, trigger)
}

// fire evaluates guards without holding the lock so they may read the machine
func (m *Machine[T]) fire(ctx T, node *Node[T], trigger event.EventType) bool {
	for _, t := range node.Transitions {
		if t.Trigger != trigger {
			continue
		}
		if t.Guard != nil && !t.Guard(ctx) {
			continue
		}
		m.transition(ctx, node, t.TargetID)
		return true
	}
	return false
}

func (m *Machine[T]) transition(ctx T, from *Node[T], targetID StateID) {
	target, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("FSM: transition to unknown state ID %d", targetID))
	}

	runActions(ctx, from.OnExit)

	m.mu.Lock()
	m.activeID = targetID
	m.timeInState = 0
	m.transitions++
	m.mu.Unlock()

	runActions(ctx, target.OnEnter)
}

func runActions[T any](ctx T, actions []Action[T]) {
	for _, a := range actions {
		a.Func(ctx, a.Args)
	}
}

// State returns the active state name, empty before Init
func (m *Machine[T]) State() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if node, ok := m.nodes[m.activeID]; ok {
		return node.Name
	}
	return ""
}

// TimeInState returns time spent in the active state
func (m *Machine[T]) TimeInState() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timeInState
}

// TransitionCount returns the number of transitions taken since load
func (m *Machine[T]) TransitionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transitions
}
