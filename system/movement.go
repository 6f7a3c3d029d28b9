package system

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/clinuxrulz/flying-shooter/component"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/vmath"
)

// MovementSystem turns, thrusts and moves ships, clamped to the arena
type MovementSystem struct {
	engine.SystemBase
}

func NewMovementSystem(world *engine.World) engine.System {
	return &MovementSystem{SystemBase: engine.NewSystemBase(world)}
}

func (s *MovementSystem) Name() string { return "movement" }

func (s *MovementSystem) Priority() int { return parameter.PriorityMovement }

func (s *MovementSystem) Phases() engine.PhaseMask { return engine.MaskActive }

func (s *MovementSystem) Update() {
	dt := parameter.FixedDelta
	turnStep := vmath.Mul(parameter.TurnSpeed, dt)
	moveStep := vmath.Mul(parameter.MoveSpeed, dt)

	for _, e := range s.Component.Player.GetAllEntities() {
		player, _ := s.Component.Player.GetComponent(e)
		tr, ok := s.Component.Transform.GetComponent(e)
		if !ok {
			continue
		}
		vel, _ := s.Component.Velocity.GetComponent(e)
		in := s.Resource.Input.Of(player.Handle)

		tr.Facing = vmath.WrapAngle(vmath.MulAdd(tr.Facing, in.Turn(), turnStep))
		dir := vmath.Direction(tr.Facing)

		var acc mgl32.Vec2
		switch {
		case in.Thrust():
			acc = vmath.Scale(dir, parameter.ThrustAcceleration)
		case in.Reverse():
			acc = vmath.Scale(dir, -vmath.Mul(parameter.ThrustAcceleration, parameter.ReverseFactor))
		}

		vel.Velocity = vmath.ClampLen(vmath.AddScaled(vel.Velocity, acc, dt), parameter.MaxVelocity)
		tr.Position = vmath.ClampBox(vmath.AddScaled(tr.Position, vel.Velocity, moveStep), parameter.MapLimit)

		s.Component.Transform.SetComponent(e, tr)
		s.Component.Velocity.SetComponent(e, vel)
		s.Component.Acceleration.SetComponent(e, component.AccelerationComponent{Acceleration: acc})
	}
}
