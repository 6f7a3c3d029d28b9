package engine

import (
	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
)

// Resource holds typed pointers to the rollback resources, fetched once per system
type Resource struct {
	Frame *FrameResource
	Round *RoundResource
	Score *ScoreResource
	Match *MatchResource
	Input *InputResource
}

// GetResourceStore populates Resource from world
// Pointers stay valid across snapshot restores
func GetResourceStore(w *World) Resource {
	return Resource{
		Frame: MustGetResource[*FrameResource](w.Resources),
		Round: MustGetResource[*RoundResource](w.Resources),
		Score: MustGetResource[*ScoreResource](w.Resources),
		Match: MustGetResource[*MatchResource](w.Resources),
		Input: MustGetResource[*InputResource](w.Resources),
	}
}

// FrameResource carries the frame being simulated
type FrameResource struct {
	Current core.Frame
}

// RoundResource is the inner phase machine state
type RoundResource struct {
	Phase RoundPhase

	// Pending transition requested by a stage, applied after the last stage of the frame
	Pending    RoundPhase
	HasPending bool

	// TimerFrames counts frames spent in the current phase
	TimerFrames int32

	// Round counts completed round starts
	Round uint32
}

// Request queues a phase transition for the end of the frame
// First request in a frame wins; returns false if one is already queued or p is current
func (r *RoundResource) Request(p RoundPhase) bool {
	if r.HasPending || p == r.Phase {
		return false
	}
	r.Pending = p
	r.HasPending = true
	return true
}

// ScoreResource holds per-player elimination counts, indexed by handle
type ScoreResource struct {
	Scores []uint32
}

// Clone returns a deep copy
func (s ScoreResource) Clone() ScoreResource {
	scores := make([]uint32, len(s.Scores))
	copy(scores, s.Scores)
	return ScoreResource{Scores: scores}
}

// Credit adds one point to handle, ignoring unknown handles
func (s *ScoreResource) Credit(h core.PlayerHandle) {
	if int(h) < len(s.Scores) {
		s.Scores[h]++
	}
}

// MatchResource holds per-match constants agreed at session start
type MatchResource struct {
	NumPlayers uint8
}

// InputResource holds the inputs of the frame being simulated, indexed by handle
type InputResource struct {
	Inputs []input.Input
}

// Clone returns a deep copy
func (r InputResource) Clone() InputResource {
	inputs := make([]input.Input, len(r.Inputs))
	copy(inputs, r.Inputs)
	return InputResource{Inputs: inputs}
}

// Of returns the input for handle, neutral if out of range
func (r *InputResource) Of(h core.PlayerHandle) input.Input {
	if int(h) < len(r.Inputs) {
		return r.Inputs[h]
	}
	return input.Input{}
}
