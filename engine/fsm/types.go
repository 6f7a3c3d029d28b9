package fsm

import (
	"sync"
	"time"

	"github.com/clinuxrulz/flying-shooter/event"
)

// StateID is a unique identifier for a node
type StateID int

const StateNone StateID = 0

// TriggerTick marks a transition polled on every Update
const TriggerTick event.EventType = -1

// Machine is a flat, forward-only finite state machine
// T is the context passed to guards and actions
type Machine[T any] struct {
	mu sync.RWMutex

	// Graph, immutable after load
	nodes     map[StateID]*Node[T]
	initialID StateID

	// Runtime
	activeID    StateID
	timeInState time.Duration
	transitions int

	guardReg  map[string]GuardFunc[T]
	actionReg map[string]ActionFunc[T]
}

// Node is one state of the machine
type Node[T any] struct {
	ID   StateID
	Name string
	Rank int // Position in the declared order; transitions must increase it

	OnEnter []Action[T]
	OnExit  []Action[T]

	// Transitions in evaluation order
	Transitions []Transition[T]
}

// Transition links two states
type Transition[T any] struct {
	TargetID  StateID
	Trigger   event.EventType // TriggerTick for polled transitions
	Guard     GuardFunc[T]    // nil = always true
	GuardName string
}

// Action is a compiled side effect with its configured arguments
type Action[T any] struct {
	Func ActionFunc[T]
	Args ActionConfig
}

// GuardFunc returns true if the transition should occur
// A false guard defers the transition to a later poll
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T, args ActionConfig)
