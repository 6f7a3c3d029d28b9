package session

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/clinuxrulz/flying-shooter/asset"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/engine/fsm"
	"github.com/clinuxrulz/flying-shooter/event"
)

// Outer is the lifecycle phase as the scheduler reads it
type Outer struct {
	phase atomic.Uint32
}

func (o *Outer) OuterPhase() engine.OuterPhase {
	return engine.OuterPhase(o.phase.Load())
}

func (o *Outer) Set(p engine.OuterPhase) {
	o.phase.Store(uint32(p))
}

// LifecycleHooks are the host side effects of the lifecycle graph
// Hooks run on the goroutine calling Update or HandleEvent and must not block
type LifecycleHooks struct {
	LoadAssets   func() error // Loading: prepare static data; nil counts as instantly ready
	StartSession func() error // Matchmaking: begin joining a match
	SessionReady func() bool  // Matchmaking guard: all players known
	StartMatch   func() error // InGame: build the world and start the runner
}

// Lifecycle runs the Loading -> Matchmaking -> InGame graph and mirrors it into Outer
type Lifecycle struct {
	machine *fsm.Machine[*Lifecycle]
	outer   Outer
	hooks   LifecycleHooks

	assetsReady atomic.Bool
	err         atomic.Pointer[error]
}

// NewLifecycle loads the embedded lifecycle graph with hooks bound
func NewLifecycle(hooks LifecycleHooks) (*Lifecycle, error) {
	l := &Lifecycle{
		machine: fsm.NewMachine[*Lifecycle](),
		hooks:   hooks,
	}

	l.machine.RegisterGuard("AssetsReady", func(l *Lifecycle) bool {
		return l.assetsReady.Load()
	})
	l.machine.RegisterGuard("SessionReady", func(l *Lifecycle) bool {
		return l.hooks.SessionReady != nil && l.hooks.SessionReady()
	})

	l.machine.RegisterAction("Log", func(l *Lifecycle, args fsm.ActionConfig) {
		log.Printf("lifecycle: %s", args.Message)
	})
	l.machine.RegisterAction("LoadAssets", func(l *Lifecycle, _ fsm.ActionConfig) {
		if l.hooks.LoadAssets != nil {
			if err := l.hooks.LoadAssets(); err != nil {
				l.fail("load assets", err)
				return
			}
		}
		l.assetsReady.Store(true)
	})
	l.machine.RegisterAction("StartSession", func(l *Lifecycle, _ fsm.ActionConfig) {
		if l.hooks.StartSession != nil {
			if err := l.hooks.StartSession(); err != nil {
				l.fail("start session", err)
			}
		}
	})
	l.machine.RegisterAction("StartMatch", func(l *Lifecycle, _ fsm.ActionConfig) {
		if l.hooks.StartMatch != nil {
			if err := l.hooks.StartMatch(); err != nil {
				l.fail("start match", err)
			}
		}
	})

	if err := l.machine.LoadConfig([]byte(asset.LifecycleFSMConfig)); err != nil {
		return nil, fmt.Errorf("session: lifecycle: %w", err)
	}
	return l, nil
}

// Start enters Loading
func (l *Lifecycle) Start() error {
	if err := l.machine.Init(l); err != nil {
		return err
	}
	l.follow()
	return l.Err()
}

// Update polls Tick transitions; returns the first hook error
func (l *Lifecycle) Update(dt time.Duration) error {
	if l.Err() == nil {
		l.machine.Update(l, dt)
		l.follow()
	}
	return l.Err()
}

// HandleEvent offers a session event as a trigger
func (l *Lifecycle) HandleEvent(ev event.GameEvent) error {
	if l.Err() == nil {
		l.machine.HandleEvent(l, ev.Type)
		l.follow()
	}
	return l.Err()
}

// Outer returns the phase source for the scheduler
func (l *Lifecycle) Outer() engine.OuterPhaseSource {
	return &l.outer
}

// Phase returns the current outer phase
func (l *Lifecycle) Phase() engine.OuterPhase {
	return l.outer.OuterPhase()
}

// TimeInState returns how long the current phase has lasted
func (l *Lifecycle) TimeInState() time.Duration {
	return l.machine.TimeInState()
}

// Err returns the hook error that halted the lifecycle
func (l *Lifecycle) Err() error {
	if e := l.err.Load(); e != nil {
		return *e
	}
	return nil
}

func (l *Lifecycle) follow() {
	if p, ok := engine.ParseOuterPhase(l.machine.State()); ok {
		l.outer.Set(p)
	}
}

func (l *Lifecycle) fail(op string, err error) {
	err = fmt.Errorf("session: %s: %w", op, err)
	l.err.CompareAndSwap(nil, &err)
}
