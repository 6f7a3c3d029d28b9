package system

import (
	"github.com/clinuxrulz/flying-shooter/engine"
)

// NewGamePipeline wires every gameplay stage and the round starter over w
func NewGamePipeline(w *engine.World, outer engine.OuterPhaseSource) *engine.Pipeline {
	p := engine.NewPipeline(w, outer)
	p.AddSystem(NewMovementSystem(w))
	p.AddSystem(NewReloadSystem(w))
	p.AddSystem(NewFireSystem(w))
	p.AddSystem(NewBulletSystem(w))
	p.AddSystem(NewEliminationSystem(w))
	p.AddSystem(NewRoundEndSystem(w))
	p.SetRoundStarter(NewRoundStartSystem(w))
	return p
}
