package engine

import (
	"errors"
	"fmt"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
)

var (
	ErrNotInGame    = errors.New("pipeline run outside InGame phase")
	ErrInputCount   = errors.New("input count does not match player count")
	ErrNoStarter    = errors.New("pipeline has no round starter")
	ErrNotStarted   = errors.New("pipeline match not started")
	ErrStartedTwice = errors.New("pipeline match already started")
)

// Pipeline runs the ordered simulation stages over one world
// Callers serialize Run; the rollback scheduler holds its mutex around every call
type Pipeline struct {
	world   *World
	res     Resource
	outer   OuterPhaseSource
	systems []System
	starter RoundStarter
	started bool
}

// NewPipeline creates a pipeline for w gated by outer
func NewPipeline(w *World, outer OuterPhaseSource) *Pipeline {
	return &Pipeline{
		world: w,
		res:   GetResourceStore(w),
		outer: outer,
	}
}

// World returns the simulated world
func (p *Pipeline) World() *World {
	return p.world
}

// AddSystem adds a stage and keeps stages sorted by priority
func (p *Pipeline) AddSystem(s System) {
	p.systems = append(p.systems, s)

	// Sort by priority (bubble sort, small N, stable for equal priority)
	for i := 0; i < len(p.systems)-1; i++ {
		for j := 0; j < len(p.systems)-i-1; j++ {
			if p.systems[j].Priority() > p.systems[j+1].Priority() {
				p.systems[j], p.systems[j+1] = p.systems[j+1], p.systems[j]
			}
		}
	}
}

// Systems returns a copy of the stage order
func (p *Pipeline) Systems() []System {
	result := make([]System, len(p.systems))
	copy(result, p.systems)
	return result
}

// SetRoundStarter installs the hook run on entering ActiveRound
func (p *Pipeline) SetRoundStarter(s RoundStarter) {
	p.starter = s
}

// StartMatch enters the first ActiveRound before frame 0
// Must be called once, identically on every peer
func (p *Pipeline) StartMatch() error {
	if p.started {
		return ErrStartedTwice
	}
	if p.starter == nil {
		return ErrNoStarter
	}
	p.res.Round.Phase = RoundActive
	p.res.Round.HasPending = false
	p.enterActive()
	p.started = true
	return nil
}

// Run advances the world by exactly one frame with one input per player
func (p *Pipeline) Run(frame core.Frame, inputs []input.Input) error {
	if phase := p.outer.OuterPhase(); phase != OuterInGame {
		return fmt.Errorf("%w: %s", ErrNotInGame, phase)
	}
	if !p.started {
		return ErrNotStarted
	}
	if len(inputs) != int(p.res.Match.NumPlayers) {
		return fmt.Errorf("%w: got %d, want %d", ErrInputCount, len(inputs), p.res.Match.NumPlayers)
	}

	p.res.Frame.Current = frame
	copy(p.res.Input.Inputs, inputs)

	// Gate on the phase at frame start; requests made this frame land after the last stage
	phase := p.res.Round.Phase
	for _, s := range p.systems {
		if s.Phases().Has(phase) {
			s.Update()
		}
	}

	p.res.Round.TimerFrames++
	p.applyTransition()
	return nil
}

// applyTransition commits at most one pending round phase change
func (p *Pipeline) applyTransition() {
	r := p.res.Round
	if !r.HasPending {
		return
	}
	r.HasPending = false
	if r.Pending == r.Phase {
		return
	}
	r.Phase = r.Pending
	r.TimerFrames = 0
	if r.Phase == RoundActive {
		p.enterActive()
	}
}

func (p *Pipeline) enterActive() {
	p.res.Round.TimerFrames = 0
	p.res.Round.Round++
	p.starter.StartRound()
}
