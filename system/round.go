package system

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/clinuxrulz/flying-shooter/component"
	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/vmath"
)

// RoundEndSystem holds the RoundEnd phase for a fixed number of frames
type RoundEndSystem struct {
	engine.SystemBase
}

func NewRoundEndSystem(world *engine.World) engine.System {
	return &RoundEndSystem{SystemBase: engine.NewSystemBase(world)}
}

func (s *RoundEndSystem) Name() string { return "round_end" }

func (s *RoundEndSystem) Priority() int { return parameter.PriorityRoundEnd }

func (s *RoundEndSystem) Phases() engine.PhaseMask { return engine.MaskEnd }

// Update counts this frame; TimerFrames holds frames already spent in the phase
func (s *RoundEndSystem) Update() {
	if s.Resource.Round.TimerFrames+1 >= parameter.RoundEndFrames {
		s.Resource.Round.Request(engine.RoundActive)
	}
}

// SpawnPoint is a fixed round-start placement
type SpawnPoint struct {
	Position mgl32.Vec2
	Facing   float32
}

// SpawnPoints index by player handle; first two face each other across the origin
var SpawnPoints = [parameter.MaxPlayers]SpawnPoint{
	{Position: mgl32.Vec2{-2, 0}, Facing: 0},
	{Position: mgl32.Vec2{2, 0}, Facing: vmath.Pi},
	{Position: mgl32.Vec2{0, -2}, Facing: vmath.Pi / 2},
	{Position: mgl32.Vec2{0, 2}, Facing: 3 * vmath.Pi / 2},
}

// RoundStartSystem clears the arena and spawns every player
type RoundStartSystem struct {
	engine.SystemBase
}

func NewRoundStartSystem(world *engine.World) *RoundStartSystem {
	return &RoundStartSystem{SystemBase: engine.NewSystemBase(world)}
}

// StartRound implements engine.RoundStarter
func (s *RoundStartSystem) StartRound() {
	for _, e := range s.Component.Player.GetAllEntities() {
		s.World.DestroyEntity(e)
	}
	for _, e := range s.Component.Bullet.GetAllEntities() {
		s.World.DestroyEntity(e)
	}

	n := int(s.Resource.Match.NumPlayers)
	for h := 0; h < n && h < len(SpawnPoints); h++ {
		sp := SpawnPoints[h]
		e := s.World.CreateEntity()
		s.Component.Player.SetComponent(e, component.PlayerComponent{Handle: core.PlayerHandle(h)})
		s.Component.Transform.SetComponent(e, component.TransformComponent{
			Position: sp.Position,
			Facing:   sp.Facing,
			Scale:    parameter.PlayerScale,
		})
		s.Component.Velocity.SetComponent(e, component.VelocityComponent{})
		s.Component.Acceleration.SetComponent(e, component.AccelerationComponent{})
		s.Component.Weapon.SetComponent(e, component.WeaponComponent{Ready: true})
	}
}
