package rollback

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
)

// View is a read-only copy of the settled state after a full frame
// Published atomically; hosts never touch the world directly
type View struct {
	Frame       core.Frame // Last simulated frame
	Outer       engine.OuterPhase
	Round       engine.RoundPhase
	RoundNumber uint32
	Scores      []uint32
	Players     []PlayerView // Ascending by handle
	Bullets     []BulletView // Ascending by entity
}

// PlayerView is one ship as drawn
type PlayerView struct {
	Handle   core.PlayerHandle
	Position mgl32.Vec2
	Facing   float32
	Scale    float32
	Velocity mgl32.Vec2
}

// BulletView is one projectile as drawn
type BulletView struct {
	Entity    core.Entity
	Owner     core.PlayerHandle
	Position  mgl32.Vec2
	Direction mgl32.Vec2
	Scale     float32
}

// Player returns the view of handle if alive
func (v *View) Player(h core.PlayerHandle) (PlayerView, bool) {
	for _, p := range v.Players {
		if p.Handle == h {
			return p, true
		}
	}
	return PlayerView{}, false
}

// buildView copies the settled world into a View
func buildView(w *engine.World, frame core.Frame, outer engine.OuterPhase) *View {
	res := engine.GetResourceStore(w)
	c := w.Components

	v := &View{
		Frame:       frame,
		Outer:       outer,
		Round:       res.Round.Phase,
		RoundNumber: res.Round.Round,
		Scores:      append([]uint32(nil), res.Score.Scores...),
	}

	for _, e := range c.Player.GetAllEntities() {
		p, _ := c.Player.GetComponent(e)
		tr, _ := c.Transform.GetComponent(e)
		vel, _ := c.Velocity.GetComponent(e)
		v.Players = append(v.Players, PlayerView{
			Handle:   p.Handle,
			Position: tr.Position,
			Facing:   tr.Facing,
			Scale:    tr.Scale,
			Velocity: vel.Velocity,
		})
	}
	sort.Slice(v.Players, func(i, j int) bool { return v.Players[i].Handle < v.Players[j].Handle })

	for _, e := range c.Bullet.GetAllEntities() {
		b, _ := c.Bullet.GetComponent(e)
		tr, _ := c.Transform.GetComponent(e)
		v.Bullets = append(v.Bullets, BulletView{
			Entity:    e,
			Owner:     b.Owner,
			Position:  tr.Position,
			Direction: b.Direction,
			Scale:     tr.Scale,
		})
	}
	return v
}
