package system

import (
	"github.com/clinuxrulz/flying-shooter/component"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/vmath"
)

// ReloadSystem re-arms a weapon once its trigger is released
type ReloadSystem struct {
	engine.SystemBase
}

func NewReloadSystem(world *engine.World) engine.System {
	return &ReloadSystem{SystemBase: engine.NewSystemBase(world)}
}

func (s *ReloadSystem) Name() string { return "reload" }

func (s *ReloadSystem) Priority() int { return parameter.PriorityReload }

func (s *ReloadSystem) Phases() engine.PhaseMask { return engine.MaskActive }

func (s *ReloadSystem) Update() {
	for _, e := range s.Component.Weapon.GetAllEntities() {
		player, ok := s.Component.Player.GetComponent(e)
		if !ok {
			continue
		}
		if s.Resource.Input.Of(player.Handle).Fire() {
			continue
		}
		s.Component.Weapon.SetComponent(e, component.WeaponComponent{Ready: true})
	}
}

// FireSystem spawns one bullet per trigger press from an armed weapon
type FireSystem struct {
	engine.SystemBase
}

func NewFireSystem(world *engine.World) engine.System {
	return &FireSystem{SystemBase: engine.NewSystemBase(world)}
}

func (s *FireSystem) Name() string { return "fire" }

func (s *FireSystem) Priority() int { return parameter.PriorityFire }

func (s *FireSystem) Phases() engine.PhaseMask { return engine.MaskActive }

// spawnOffset puts the bullet clear of the shooter's own hull
const spawnOffset = parameter.PlayerRadius + parameter.BulletRadius + parameter.BulletSpawnMargin

func (s *FireSystem) Update() {
	frame := s.Resource.Frame.Current

	for _, e := range s.Component.Player.GetAllEntities() {
		player, _ := s.Component.Player.GetComponent(e)
		weapon, ok := s.Component.Weapon.GetComponent(e)
		if !ok || !weapon.Ready {
			continue
		}
		if !s.Resource.Input.Of(player.Handle).Fire() {
			continue
		}
		tr, ok := s.Component.Transform.GetComponent(e)
		if !ok {
			continue
		}

		dir := vmath.Direction(tr.Facing)
		bullet := s.World.CreateEntity()
		s.Component.Bullet.SetComponent(bullet, component.BulletComponent{
			Owner:     player.Handle,
			Direction: dir,
			BornFrame: frame,
		})
		s.Component.Transform.SetComponent(bullet, component.TransformComponent{
			Position: vmath.AddScaled(tr.Position, dir, spawnOffset),
			Facing:   tr.Facing,
			Scale:    parameter.BulletScale,
		})

		s.Component.Weapon.SetComponent(e, component.WeaponComponent{Ready: false})
	}
}
