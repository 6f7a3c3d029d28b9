package session

import (
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/rollback"
	"github.com/clinuxrulz/flying-shooter/status"
	"github.com/clinuxrulz/flying-shooter/system"
)

// NewGameScheduler builds the game world, registry and pipeline for numPlayers and wraps them in a scheduler
func NewGameScheduler(cfg rollback.Config, numPlayers int, outer engine.OuterPhaseSource,
	events *event.EventQueue, metrics *status.Registry) (*rollback.Scheduler, error) {

	w := engine.NewGameWorld(numPlayers)
	p := system.NewGamePipeline(w, outer)
	return rollback.NewScheduler(cfg, engine.NewGameRegistry(), p, outer, events, metrics)
}
