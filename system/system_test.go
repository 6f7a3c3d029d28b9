package system

import (
	"errors"
	"testing"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

// harness is a started two-player game world
type harness struct {
	world    *engine.World
	pipeline *engine.Pipeline
	res      engine.Resource
	frame    core.Frame
}

func newHarness(t *testing.T, players int) *harness {
	t.Helper()
	w := engine.NewGameWorld(players)
	engine.NewGameRegistry().MustValidate(w)
	p := NewGamePipeline(w, engine.FixedOuter(engine.OuterInGame))
	if err := p.StartMatch(); err != nil {
		t.Fatalf("StartMatch failed: %v", err)
	}
	return &harness{world: w, pipeline: p, res: engine.GetResourceStore(w)}
}

func (h *harness) step(t *testing.T, inputs ...input.Input) {
	t.Helper()
	if err := h.pipeline.Run(h.frame, inputs); err != nil {
		t.Fatalf("Run frame %d failed: %v", h.frame, err)
	}
	h.frame++
}

func (h *harness) player(handle core.PlayerHandle) (core.Entity, bool) {
	for _, e := range h.world.Components.Player.GetAllEntities() {
		p, _ := h.world.Components.Player.GetComponent(e)
		if p.Handle == handle {
			return e, true
		}
	}
	return 0, false
}

var (
	neutral = input.Input{}
	fire    = input.Encode(input.DeviceState{Fire: true})
	thrust  = input.Encode(input.DeviceState{Up: true})
)

func TestStageOrder(t *testing.T) {
	h := newHarness(t, 2)
	want := []string{"movement", "reload", "fire", "bullet", "elimination", "round_end"}
	got := h.pipeline.Systems()
	if len(got) != len(want) {
		t.Fatalf("Expected %d stages, got %d", len(want), len(got))
	}
	for i, s := range got {
		if s.Name() != want[i] {
			t.Errorf("Expected stage %d to be %s, got %s", i, want[i], s.Name())
		}
	}
}

func TestRoundStartSpawns(t *testing.T) {
	h := newHarness(t, 2)

	if n := h.world.Components.Player.CountEntities(); n != 2 {
		t.Fatalf("Expected 2 players, got %d", n)
	}
	for handle, sp := range SpawnPoints[:2] {
		e, ok := h.player(core.PlayerHandle(handle))
		if !ok {
			t.Fatalf("Expected player %d", handle)
		}
		tr, _ := h.world.Components.Transform.GetComponent(e)
		if tr.Position != sp.Position || tr.Facing != sp.Facing {
			t.Errorf("Expected player %d at %v facing %v, got %v facing %v",
				handle, sp.Position, sp.Facing, tr.Position, tr.Facing)
		}
		if w, _ := h.world.Components.Weapon.GetComponent(e); !w.Ready {
			t.Errorf("Expected player %d armed at round start", handle)
		}
	}
	if h.res.Round.Phase != engine.RoundActive {
		t.Errorf("Expected ActiveRound, got %s", h.res.Round.Phase)
	}
}

func TestNeutralInputKeepsShipsStill(t *testing.T) {
	h := newHarness(t, 2)
	e, _ := h.player(0)
	before, _ := h.world.Components.Transform.GetComponent(e)

	for i := 0; i < 30; i++ {
		h.step(t, neutral, neutral)
	}

	after, _ := h.world.Components.Transform.GetComponent(e)
	if after.Position != before.Position || after.Facing != before.Facing {
		t.Errorf("Expected no motion, moved from %v to %v", before.Position, after.Position)
	}
}

func TestThrustMovesForwardAndClamps(t *testing.T) {
	h := newHarness(t, 2)
	e, _ := h.player(0)

	h.step(t, thrust, neutral)
	tr, _ := h.world.Components.Transform.GetComponent(e)
	if tr.Position[0] <= SpawnPoints[0].Position[0] {
		t.Errorf("Expected player 0 to move toward +X, got %v", tr.Position)
	}
	acc, _ := h.world.Components.Acceleration.GetComponent(e)
	if acc.Acceleration[0] <= 0 {
		t.Errorf("Expected forward acceleration, got %v", acc.Acceleration)
	}

	for i := 0; i < 60*60; i++ {
		h.step(t, thrust, neutral)
	}
	tr, _ = h.world.Components.Transform.GetComponent(e)
	if tr.Position[0] != parameter.MapLimit {
		t.Errorf("Expected position clamped to %v, got %v", parameter.MapLimit, tr.Position[0])
	}
	vel, _ := h.world.Components.Velocity.GetComponent(e)
	if l := vel.Velocity.Len(); l > parameter.MaxVelocity+1e-4 {
		t.Errorf("Expected velocity <= %v, got %v", parameter.MaxVelocity, l)
	}
}

func TestFireRequiresRelease(t *testing.T) {
	h := newHarness(t, 2)

	h.step(t, fire, neutral)
	h.step(t, fire, neutral)
	h.step(t, fire, neutral)
	if n := h.world.Components.Bullet.CountEntities(); n != 1 {
		t.Fatalf("Expected 1 bullet while trigger held, got %d", n)
	}

	h.step(t, neutral, neutral)
	h.step(t, fire, neutral)
	if n := h.world.Components.Bullet.CountEntities(); n != 2 {
		t.Errorf("Expected 2 bullets after release and press, got %d", n)
	}
}

func TestBulletExpires(t *testing.T) {
	h := newHarness(t, 2)

	// Lift player 0 off player 1's line so the bullet flies clear
	e, _ := h.player(0)
	tr, _ := h.world.Components.Transform.GetComponent(e)
	tr.Position[1] = 10
	h.world.Components.Transform.SetComponent(e, tr)

	h.step(t, fire, neutral)
	for i := 1; i < parameter.BulletTTLFrames; i++ {
		h.step(t, neutral, neutral)
	}
	if n := h.world.Components.Bullet.CountEntities(); n != 1 {
		t.Fatalf("Expected bullet alive before TTL, got %d", n)
	}
	h.step(t, neutral, neutral)
	if n := h.world.Components.Bullet.CountEntities(); n != 0 {
		t.Errorf("Expected bullet expired after TTL, got %d", n)
	}
}

func TestTwoPlayerFireScenario(t *testing.T) {
	h := newHarness(t, 2)

	h.step(t, fire, neutral)
	ended := 0
	for i := 0; i < 30 && ended == 0; i++ {
		h.step(t, neutral, neutral)
		if h.res.Round.Phase == engine.RoundEnd {
			ended++
		}
	}
	if ended == 0 {
		t.Fatalf("Expected round to end after player 1 was hit")
	}

	if got := h.res.Score.Scores; got[0] != 1 || got[1] != 0 {
		t.Errorf("Expected scores (1,0), got %v", got)
	}
	if _, ok := h.player(1); ok {
		t.Errorf("Expected player 1 eliminated")
	}
	if _, ok := h.player(0); !ok {
		t.Errorf("Expected shooter to survive its own bullet")
	}
	if n := h.world.Components.Bullet.CountEntities(); n != 0 {
		t.Errorf("Expected bullet consumed by hit, got %d", n)
	}
}

func TestRoundEndFiresOnceAndRespawns(t *testing.T) {
	h := newHarness(t, 2)
	startRound := h.res.Round.Round

	h.step(t, fire, neutral)
	for h.res.Round.Phase != engine.RoundEnd {
		h.step(t, neutral, neutral)
		if h.frame > 60 {
			t.Fatalf("Round never ended")
		}
	}
	endFrame := h.frame

	// Stages that touch ships are gated off during RoundEnd
	for i := 0; i < parameter.RoundEndFrames-1; i++ {
		h.step(t, fire, thrust)
		if h.res.Round.Phase != engine.RoundEnd {
			t.Fatalf("Expected RoundEnd to hold, left at frame %d", h.frame)
		}
		if h.res.Score.Scores[0] != 1 {
			t.Fatalf("Expected a single credited elimination, got %v", h.res.Score.Scores)
		}
	}
	if n := h.world.Components.Bullet.CountEntities(); n != 0 {
		t.Errorf("Expected no firing during RoundEnd, got %d bullets", n)
	}

	h.step(t, neutral, neutral)
	if h.res.Round.Phase != engine.RoundActive {
		t.Fatalf("Expected ActiveRound after %d frames, still %s", h.frame-endFrame, h.res.Round.Phase)
	}
	if h.res.Round.Round != startRound+1 {
		t.Errorf("Expected round counter %d, got %d", startRound+1, h.res.Round.Round)
	}
	if n := h.world.Components.Player.CountEntities(); n != 2 {
		t.Errorf("Expected both players respawned, got %d", n)
	}
	if h.res.Score.Scores[0] != 1 || h.res.Score.Scores[1] != 0 {
		t.Errorf("Expected scores kept across rounds, got %v", h.res.Score.Scores)
	}
}

func TestRunOutsideInGame(t *testing.T) {
	w := engine.NewGameWorld(2)
	p := NewGamePipeline(w, engine.FixedOuter(engine.OuterMatchmaking))
	if err := p.StartMatch(); err != nil {
		t.Fatalf("StartMatch failed: %v", err)
	}
	if err := p.Run(0, []input.Input{neutral, neutral}); !errors.Is(err, engine.ErrNotInGame) {
		t.Errorf("Expected ErrNotInGame, got %v", err)
	}
}

func TestRunRejectsInputCount(t *testing.T) {
	h := newHarness(t, 2)
	if err := h.pipeline.Run(0, []input.Input{neutral}); !errors.Is(err, engine.ErrInputCount) {
		t.Errorf("Expected ErrInputCount, got %v", err)
	}
}

func TestDeterministicReplay(t *testing.T) {
	script := func(f int) (input.Input, input.Input) {
		a := input.Encode(input.DeviceState{Up: f%7 < 4, Left: f%11 < 3, Fire: f%13 == 0})
		b := input.Encode(input.DeviceState{AxisX: float32(f%9-4) / 4, AxisY: 0.8, Fire: f%17 == 0})
		return a, b
	}

	reg := engine.NewGameRegistry()
	run := func() uint64 {
		h := newHarness(t, 2)
		for f := 0; f < 600; f++ {
			a, b := script(f)
			h.step(t, a, b)
		}
		sum, err := reg.Checksum(h.world)
		if err != nil {
			t.Fatalf("Checksum failed: %v", err)
		}
		return sum
	}

	first, second := run(), run()
	if first != second {
		t.Errorf("Expected identical checksums across runs, got %x and %x", first, second)
	}
}

func TestFourPlayerSpawn(t *testing.T) {
	h := newHarness(t, 4)
	if n := h.world.Components.Player.CountEntities(); n != 4 {
		t.Fatalf("Expected 4 players, got %d", n)
	}
	h.step(t, neutral, neutral, neutral, neutral)
	for handle := core.PlayerHandle(0); handle < 4; handle++ {
		if _, ok := h.player(handle); !ok {
			t.Errorf("Expected player %d", handle)
		}
	}
}
