package system

import (
	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/vmath"
)

// BulletSystem moves projectiles in a straight line and expires them by age
type BulletSystem struct {
	engine.SystemBase
	expired []core.Entity
}

func NewBulletSystem(world *engine.World) engine.System {
	return &BulletSystem{SystemBase: engine.NewSystemBase(world)}
}

func (s *BulletSystem) Name() string { return "bullet" }

func (s *BulletSystem) Priority() int { return parameter.PriorityBullet }

func (s *BulletSystem) Phases() engine.PhaseMask { return engine.MaskActive }

func (s *BulletSystem) Update() {
	frame := s.Resource.Frame.Current
	step := vmath.Mul(parameter.BulletSpeed, parameter.FixedDelta)

	s.expired = s.expired[:0]
	for _, e := range s.Component.Bullet.GetAllEntities() {
		bullet, _ := s.Component.Bullet.GetComponent(e)
		if frame-bullet.BornFrame >= parameter.BulletTTLFrames {
			s.expired = append(s.expired, e)
			continue
		}
		tr, ok := s.Component.Transform.GetComponent(e)
		if !ok {
			s.expired = append(s.expired, e)
			continue
		}
		tr.Position = vmath.AddScaled(tr.Position, bullet.Direction, step)
		s.Component.Transform.SetComponent(e, tr)
	}

	for _, e := range s.expired {
		s.World.DestroyEntity(e)
	}
}
