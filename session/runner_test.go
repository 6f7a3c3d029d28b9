package session

import (
	"testing"
	"time"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/network"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/rollback"
	"github.com/clinuxrulz/flying-shooter/status"
)

var testCfg = rollback.Config{MaxRollback: 8, ChecksumInterval: 1}

// scriptFor returns the k-th device sample of player h
func scriptFor(h core.PlayerHandle) func(k int) input.Input {
	if h == 0 {
		return func(k int) input.Input {
			return input.Encode(input.DeviceState{Up: k%6 < 3, Left: k%10 < 3, Fire: k%17 == 0})
		}
	}
	return func(k int) input.Input {
		return input.Encode(input.DeviceState{Right: k%8 < 4, Down: k%12 == 0, Fire: k%19 == 0})
	}
}

func scriptedDevice(script func(int) input.Input) (DeviceFunc, *int) {
	calls := 0
	return func(time.Time) input.Input {
		in := script(calls)
		calls++
		return in
	}, &calls
}

func newTestGameScheduler(t *testing.T, outer engine.OuterPhaseSource, events *event.EventQueue, metrics *status.Registry) *rollback.Scheduler {
	t.Helper()
	s, err := NewGameScheduler(testCfg, 2, outer, events, metrics)
	if err != nil {
		t.Fatalf("NewGameScheduler failed: %v", err)
	}
	return s
}

func inGame() engine.OuterPhaseSource {
	return engine.FixedOuter(engine.OuterInGame)
}

// straightChecksums simulates frames with the delayed scripted inputs and no rollback
func straightChecksums(t *testing.T, frames, delay int) map[core.Frame]uint64 {
	t.Helper()
	s := newTestGameScheduler(t, inGame(), nil, nil)
	sums := make(map[core.Frame]uint64, frames)
	for f := core.Frame(0); f < core.Frame(frames); f++ {
		inputs := make([]input.Input, 2)
		if int(f) >= delay {
			for h := range inputs {
				inputs[h] = scriptFor(core.PlayerHandle(h))(int(f) - delay)
			}
		}
		if err := s.Advance(f, inputs); err != nil {
			t.Fatalf("straight advance %d: %v", f, err)
		}
		s.Confirm(f)
		if sum, ok := s.LocalChecksum(f); ok {
			sums[f] = sum
		}
	}
	return sums
}

type inFlight struct {
	tick int
	msgs []*network.Message
}

// deliver pushes every batch sent at or before cutoff
func deliver(queue []inFlight, cutoff int, dst *memLink) []inFlight {
	for len(queue) > 0 && queue[0].tick <= cutoff {
		for _, m := range queue[0].msgs {
			dst.inbox <- m
		}
		queue = queue[1:]
	}
	return queue
}

func noDesync(t *testing.T, name string, q *event.EventQueue) {
	t.Helper()
	for _, ev := range q.Consume() {
		if ev.Type == event.EventDesyncDetected {
			t.Fatalf("%s: unexpected %v", name, ev.Payload)
		}
	}
}

func TestP2PRunnersMatchStraightRun(t *testing.T) {
	const (
		delay = 2
		lag   = 4
		ticks = 300
	)

	la, lb := newMemLink(), newMemLink()
	sa, aEvents := newTestP2P(t, la, 0, delay)
	sb, bEvents := newTestP2P(t, lb, 1, delay)
	aMetrics := status.NewRegistry()
	schedA := newTestGameScheduler(t, inGame(), aEvents, aMetrics)
	schedB := newTestGameScheduler(t, inGame(), bEvents, nil)

	devA, _ := scriptedDevice(scriptFor(0))
	devB, _ := scriptedDevice(scriptFor(1))
	ra := NewRunner(schedA, sa, devA)
	rb := NewRunner(schedB, sb, devB)

	var toA, toB []inFlight
	now := time.Now()
	for tick := 0; tick < ticks; tick++ {
		now = now.Add(parameter.TickInterval)
		if err := ra.Tick(now); err != nil {
			t.Fatalf("runner a tick %d: %v", tick, err)
		}
		if err := rb.Tick(now); err != nil {
			t.Fatalf("runner b tick %d: %v", tick, err)
		}

		toB = append(toB, inFlight{tick, la.sent})
		toA = append(toA, inFlight{tick, lb.sent})
		la.sent, lb.sent = nil, nil
		toB = deliver(toB, tick-lag, lb)
		toA = deliver(toA, tick-lag, la)

		noDesync(t, "a", aEvents)
		noDesync(t, "b", bEvents)
	}

	if got := schedA.CurrentFrame(); got < ticks-lag-1 {
		t.Errorf("Expected no sustained stall, current frame %d", got)
	}
	if aMetrics.Ints.Get(status.KeyRollbacks).Load() == 0 {
		t.Error("Expected lagged inputs to cause rollbacks")
	}

	truth := straightChecksums(t, ticks, delay)
	for name, s := range map[string]*rollback.Scheduler{"a": schedA, "b": schedB} {
		confirmed := s.ConfirmedFrame()
		checked := 0
		for f := confirmed - 100; f <= confirmed; f++ {
			sum, ok := s.LocalChecksum(f)
			if !ok {
				continue
			}
			checked++
			if sum != truth[f] {
				t.Fatalf("%s: frame %d checksum %016x, straight run %016x", name, f, sum, truth[f])
			}
		}
		if checked < 50 {
			t.Errorf("%s: expected at least 50 confirmed checksums, got %d", name, checked)
		}
	}

	if _, ok := sa.RemoteChecksum(schedA.ConfirmedFrame()-20, 1); !ok {
		t.Error("Expected the peer's checksum to have arrived")
	}
}

func TestSyncTestRunsWithoutDesync(t *testing.T) {
	const checkDistance = 3
	events := event.NewEventQueue()
	metrics := status.NewRegistry()

	s, err := NewSyncTestSession(2, 2, checkDistance, events, metrics)
	if err != nil {
		t.Fatalf("NewSyncTestSession failed: %v", err)
	}
	sched := newTestGameScheduler(t, inGame(), events, metrics)
	dev, _ := scriptedDevice(scriptFor(0))
	r := NewRunner(sched, s, dev)

	now := time.Now()
	for tick := 0; tick < 200; tick++ {
		now = now.Add(parameter.TickInterval)
		if err := r.Tick(now); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		noDesync(t, "synctest", events)
	}

	if got := metrics.Ints.Get(status.KeyRollbacks).Load(); got < 150 {
		t.Errorf("Expected a forced rollback per frame, got %d", got)
	}
	if got := metrics.Ints.Get(status.KeyResimulated).Load(); got < 150*checkDistance {
		t.Errorf("Expected %d frames re-simulated per rollback, got %d total", checkDistance, got)
	}
	if got := sched.ConfirmedFrame(); got < 190 {
		t.Errorf("Expected confirmed frame near 195, got %d", got)
	}
	if _, ok := s.RemoteChecksum(150, 0); !ok {
		t.Error("Expected first-pass checksum of frame 150")
	}
}

func TestSyncTestReportsMismatch(t *testing.T) {
	events := event.NewEventQueue()
	s, err := NewSyncTestSession(2, 0, 2, events, nil)
	if err != nil {
		t.Fatalf("NewSyncTestSession failed: %v", err)
	}
	events.Consume()

	s.Advanced(5, 0x1111, true)
	s.SendChecksum(5, 0x2222)

	evs := events.Consume()
	if len(evs) != 1 || evs[0].Type != event.EventDesyncDetected {
		t.Fatalf("Expected one desync event, got %v", evs)
	}
	d := evs[0].Payload.(*event.DesyncPayload)
	if d.Local != 0x2222 || d.Remote != 0x1111 {
		t.Errorf("Expected local 2222 remote 1111, got %s", d)
	}
}

func TestSyncTestRejectsZeroCheckDistance(t *testing.T) {
	if _, err := NewSyncTestSession(2, 2, 0, nil, nil); err == nil {
		t.Error("Expected error for check distance 0")
	}
}

func TestRunnerStallsAtPredictionThreshold(t *testing.T) {
	la := newMemLink()
	sa, events := newTestP2P(t, la, 0, 2)
	metrics := status.NewRegistry()
	sched := newTestGameScheduler(t, inGame(), events, metrics)
	dev, calls := scriptedDevice(scriptFor(0))
	r := NewRunner(sched, sa, dev)

	now := time.Now()
	for tick := 0; tick < 40; tick++ {
		now = now.Add(parameter.TickInterval)
		if err := r.Tick(now); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
	}

	// Frames 0-1 are confirmed by the input delay; frames 2..MaxRollback+1 may be predicted
	want := core.Frame(2 + testCfg.MaxRollback)
	if got := sched.CurrentFrame(); got != want {
		t.Errorf("Expected current frame %d, got %d", want, got)
	}
	if *calls != int(want)+1 {
		t.Errorf("Expected %d device samples, got %d", int(want)+1, *calls)
	}
	if metrics.Ints.Get(status.KeyThresholdStalls).Load() == 0 {
		t.Error("Expected threshold stalls to be counted")
	}
}

func TestRunnerWaitsOutsideInGame(t *testing.T) {
	la := newMemLink()
	sa, events := newTestP2P(t, la, 0, 2)
	var outer Outer
	sched := newTestGameScheduler(t, &outer, events, nil)
	dev, calls := scriptedDevice(scriptFor(0))
	r := NewRunner(sched, sa, dev)

	now := time.Now()
	for tick := 0; tick < 5; tick++ {
		now = now.Add(parameter.TickInterval)
		if err := r.Tick(now); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
	}
	if sched.CurrentFrame() != 0 {
		t.Errorf("Expected no frames outside InGame, got %d", sched.CurrentFrame())
	}
	if *calls != 1 {
		t.Errorf("Expected one device sample for frame 0, got %d", *calls)
	}

	outer.Set(engine.OuterInGame)
	now = now.Add(parameter.TickInterval)
	if err := r.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if sched.CurrentFrame() != 1 {
		t.Errorf("Expected frame 0 simulated, current %d", sched.CurrentFrame())
	}
}
