package system

import (
	"sort"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/vmath"
)

// hitDistSq is the squared contact distance between a ship and a bullet
const hitDistSq = (parameter.PlayerRadius + parameter.BulletRadius) * (parameter.PlayerRadius + parameter.BulletRadius)

// EliminationSystem resolves bullet hits, credits the shooter and ends the round
type EliminationSystem struct {
	engine.SystemBase
	players []playerRef
}

type playerRef struct {
	entity core.Entity
	handle core.PlayerHandle
}

func NewEliminationSystem(world *engine.World) engine.System {
	return &EliminationSystem{SystemBase: engine.NewSystemBase(world)}
}

func (s *EliminationSystem) Name() string { return "elimination" }

func (s *EliminationSystem) Priority() int { return parameter.PriorityElimination }

func (s *EliminationSystem) Phases() engine.PhaseMask { return engine.MaskActive }

func (s *EliminationSystem) Update() {
	// Players ascending by handle, bullets ascending by entity ID
	s.players = s.players[:0]
	for _, e := range s.Component.Player.GetAllEntities() {
		p, _ := s.Component.Player.GetComponent(e)
		s.players = append(s.players, playerRef{entity: e, handle: p.Handle})
	}
	sort.Slice(s.players, func(i, j int) bool { return s.players[i].handle < s.players[j].handle })

	bullets := s.Component.Bullet.GetAllEntities()
	spent := make(map[core.Entity]bool)

	for _, p := range s.players {
		ptr, ok := s.Component.Transform.GetComponent(p.entity)
		if !ok {
			continue
		}
		for _, b := range bullets {
			if spent[b] {
				continue
			}
			bullet, _ := s.Component.Bullet.GetComponent(b)
			if bullet.Owner == p.handle {
				continue
			}
			btr, ok := s.Component.Transform.GetComponent(b)
			if !ok {
				continue
			}
			if vmath.DistSq(ptr.Position, btr.Position) >= hitDistSq {
				continue
			}

			spent[b] = true
			s.World.DestroyEntity(b)
			s.World.DestroyEntity(p.entity)
			s.Resource.Score.Credit(bullet.Owner)
			s.Resource.Round.Request(engine.RoundEnd)
			break
		}
	}
}
