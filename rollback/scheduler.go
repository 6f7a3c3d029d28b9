package rollback

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/status"
)

// checksumHistory bounds how long local checksums stay available for comparison
const checksumHistory = parameter.HistoryLength

// Config holds the scheduler tunables
type Config struct {
	// MaxRollback is the deepest rollback served; the ring keeps MaxRollback+1 snapshots
	MaxRollback int

	// ChecksumInterval samples a checksum every N frames
	ChecksumInterval int
}

// DefaultConfig returns the default tunables
func DefaultConfig() Config {
	return Config{
		MaxRollback:      parameter.DefaultMaxRollback,
		ChecksumInterval: parameter.DefaultChecksumInterval,
	}
}

type checksumEntry struct {
	frame core.Frame
	sum   uint64
	valid bool
}

// Scheduler owns the snapshot ring and drives the pipeline forward and backward in time
// All state mutation happens under mu; hosts read published Views only
type Scheduler struct {
	mu sync.Mutex

	cfg      Config
	registry *engine.Registry
	world    *engine.World
	pipeline *engine.Pipeline
	outer    engine.OuterPhaseSource

	ring      []*engine.Snapshot
	checksums [checksumHistory]checksumEntry
	current   core.Frame // Next frame to simulate
	confirmed core.Frame // Highest frame with all inputs confirmed

	view     atomic.Pointer[View]
	lastView *View
	events   *event.EventQueue
	defect   atomic.Pointer[DefectError]

	// Cached metric pointers
	mFrames      *atomic.Int64
	mRollbacks   *atomic.Int64
	mResimulated *atomic.Int64
	mStalls      *atomic.Int64
	mChecksum    *atomic.Int64
	metrics      *status.Registry
}

// NewScheduler validates the world against the registry and starts the match
// pipeline must be built over world; events and metrics may be nil
func NewScheduler(cfg Config, registry *engine.Registry, pipeline *engine.Pipeline,
	outer engine.OuterPhaseSource, events *event.EventQueue, metrics *status.Registry) (*Scheduler, error) {

	if cfg.MaxRollback < 1 || cfg.MaxRollback > parameter.MaxRollbackLimit {
		return nil, fmt.Errorf("rollback: %w: %d", ErrMaxRollback, cfg.MaxRollback)
	}
	if cfg.ChecksumInterval < 1 {
		return nil, fmt.Errorf("rollback: ChecksumInterval must be >= 1, got %d", cfg.ChecksumInterval)
	}
	world := pipeline.World()
	if err := registry.Validate(world); err != nil {
		return nil, fmt.Errorf("rollback: %w", err)
	}
	if err := pipeline.StartMatch(); err != nil && !errors.Is(err, engine.ErrStartedTwice) {
		return nil, fmt.Errorf("rollback: %w", err)
	}
	if events == nil {
		events = event.NewEventQueue()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}

	s := &Scheduler{
		cfg:       cfg,
		registry:  registry,
		world:     world,
		pipeline:  pipeline,
		outer:     outer,
		ring:      make([]*engine.Snapshot, cfg.MaxRollback+1),
		current:   0,
		confirmed: core.NullFrame,
		events:    events,
		metrics:   metrics,

		mFrames:      metrics.Ints.Get(status.KeyFramesAdvanced),
		mRollbacks:   metrics.Ints.Get(status.KeyRollbacks),
		mResimulated: metrics.Ints.Get(status.KeyResimulated),
		mStalls:      metrics.Ints.Get(status.KeyThresholdStalls),
		mChecksum:    metrics.Ints.Get(status.KeyChecksumFrame),
	}
	s.publish(core.NullFrame, false)
	return s, nil
}

// CurrentFrame returns the next frame Advance expects
func (s *Scheduler) CurrentFrame() core.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ConfirmedFrame returns the confirmed frontier, NullFrame before the first confirmation
func (s *Scheduler) ConfirmedFrame() core.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed
}

// MaxRollback returns the configured rollback depth
func (s *Scheduler) MaxRollback() int {
	return s.cfg.MaxRollback
}

// Events returns the session event queue
func (s *Scheduler) Events() *event.EventQueue {
	return s.events
}

// View returns the latest settled view; never nil
func (s *Scheduler) View() *View {
	return s.view.Load()
}

// Err returns the defect that aborted the scheduler, or nil
func (s *Scheduler) Err() error {
	if d := s.defect.Load(); d != nil {
		return d
	}
	return nil
}

// Advance saves a snapshot tagged frame, runs the pipeline once and publishes the settled view
// frame must equal CurrentFrame; inputs holds one input per player, indexed by handle
func (s *Scheduler) Advance(frame core.Frame, inputs []input.Input) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defect.Load() != nil {
		return ErrAborted
	}
	defer s.recoverDefect("advance", &err)

	if frame != s.current {
		return s.fail("advance", fmt.Errorf("%w: got %d, want %d", ErrFrameOrder, frame, s.current))
	}
	if phase := s.outer.OuterPhase(); phase != engine.OuterInGame {
		return fmt.Errorf("%w: %s", engine.ErrNotInGame, phase)
	}
	if s.wouldEvict(frame) {
		s.mStalls.Add(1)
		return ErrPredictionThreshold
	}

	if err := s.step(frame, inputs); err != nil {
		return s.fail("advance", err)
	}
	s.current = frame + 1
	s.mFrames.Add(1)
	s.publish(frame, true)
	return nil
}

// RollbackTo restores the snapshot tagged frame and re-simulates up to the previous current frame
// corrected[i] holds the inputs for frame+i; the settled view is published once at the end
func (s *Scheduler) RollbackTo(frame core.Frame, corrected [][]input.Input) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defect.Load() != nil {
		return ErrAborted
	}
	defer s.recoverDefect("rollback", &err)

	snap := s.snapshotAt(frame)
	if snap == nil || frame <= s.confirmed || frame >= s.current {
		return s.fail("rollback", fmt.Errorf("%w: frame %d, window (%d, %d)",
			ErrSnapshotMissing, frame, s.confirmed, s.current))
	}
	target := s.current
	if len(corrected) != int(target-frame) {
		return s.fail("rollback", fmt.Errorf("%w: got %d, want %d", ErrCorrectionLength, len(corrected), target-frame))
	}

	if err := s.registry.Load(s.world, snap); err != nil {
		return s.fail("rollback", err)
	}
	for i, inputs := range corrected {
		f := frame + core.Frame(i)
		if err := s.step(f, inputs); err != nil {
			return s.fail("rollback", err)
		}
	}

	depth := int64(target - frame)
	s.mRollbacks.Add(1)
	s.mResimulated.Add(depth)
	s.metrics.SetMax(status.KeyMaxDepth, depth)
	// Re-simulated frames were already announced by the live advance
	s.publish(target-1, false)
	return nil
}

// Confirm moves the confirmed frontier to frame and drops snapshots no rollback can reach
// Frontier never moves backward
func (s *Scheduler) Confirm(frame core.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame <= s.confirmed {
		return
	}
	s.confirmed = frame
	for i, snap := range s.ring {
		if snap != nil && snap.Frame <= frame {
			s.ring[i] = nil
		}
	}
	s.metrics.Ints.Get(status.KeyConfirmedFrame).Store(int64(frame))
}

// LocalChecksum returns the sampled checksum of the state tagged frame
func (s *Scheduler) LocalChecksum(frame core.Frame) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame < 0 {
		return 0, false
	}
	e := s.checksums[int(frame)%checksumHistory]
	if !e.valid || e.frame != frame {
		return 0, false
	}
	return e.sum, true
}

// SnapshotAvailable reports whether RollbackTo(frame) would find a snapshot
func (s *Scheduler) SnapshotAvailable(frame core.Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotAt(frame) != nil && frame > s.confirmed && frame < s.current
}

// Snapshot returns the stored snapshot tagged frame, for diagnostics
func (s *Scheduler) Snapshot(frame core.Frame) (*engine.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotAt(frame)
	return snap, snap != nil
}

// Capture duplicates the live state at the start of CurrentFrame
func (s *Scheduler) Capture() *engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Save(s.world, s.current)
}

// EncodeSnapshot serializes snap with the scheduler's registry
func (s *Scheduler) EncodeSnapshot(snap *engine.Snapshot) ([]byte, error) {
	return engine.EncodeSnapshot(s.registry, snap)
}

// wouldEvict reports whether saving frame would leave more than MaxRollback unconfirmed frames
// or overwrite a ring slot a rollback may still need
func (s *Scheduler) wouldEvict(frame core.Frame) bool {
	if int(frame-s.confirmed) > s.cfg.MaxRollback {
		return true
	}
	old := s.ring[s.slot(frame)]
	return old != nil && old.Frame != frame && old.Frame > s.confirmed
}

func (s *Scheduler) slot(frame core.Frame) int {
	return int(frame) % len(s.ring)
}

func (s *Scheduler) snapshotAt(frame core.Frame) *engine.Snapshot {
	if frame < 0 {
		return nil
	}
	snap := s.ring[s.slot(frame)]
	if snap == nil || snap.Frame != frame {
		return nil
	}
	return snap
}

// step saves the snapshot tagged frame and runs the pipeline once
// Re-simulation overwrites the superseded snapshot and checksum of the same frame
func (s *Scheduler) step(frame core.Frame, inputs []input.Input) error {
	snap := s.registry.Save(s.world, frame)
	if int(frame)%s.cfg.ChecksumInterval == 0 {
		sum, err := s.registry.Checksum(s.world)
		if err != nil {
			return err
		}
		snap.Checksum, snap.HasChecksum = sum, true
		s.checksums[int(frame)%checksumHistory] = checksumEntry{frame: frame, sum: sum, valid: true}
		s.mChecksum.Store(int64(frame))
	}
	s.ring[s.slot(frame)] = snap
	return s.pipeline.Run(frame, inputs)
}

// publish swaps in a fresh settled view; emit derives cosmetic match events from the previous one
func (s *Scheduler) publish(frame core.Frame, emit bool) {
	v := buildView(s.world, frame, s.outer.OuterPhase())
	if emit && s.lastView != nil {
		s.emitMatchEvents(s.lastView, v)
	}
	s.lastView = v
	s.view.Store(v)
}

func (s *Scheduler) emitMatchEvents(prev, next *View) {
	var newest core.Entity
	for _, b := range prev.Bullets {
		newest = max(newest, b.Entity)
	}
	fired := 0
	for _, b := range next.Bullets {
		if b.Entity > newest {
			fired++
		}
	}
	if fired > 0 {
		s.events.Push(event.GameEvent{Type: event.EventBulletFired, Frame: next.Frame, Payload: &event.FramePayload{Count: fired}})
	}

	if sum(next.Scores) > sum(prev.Scores) {
		s.events.Push(event.GameEvent{Type: event.EventPlayerEliminated, Frame: next.Frame, Payload: &event.ScorePayload{Scores: next.Scores}})
	}

	if prev.Round != next.Round || prev.RoundNumber != next.RoundNumber {
		switch next.Round {
		case engine.RoundEnd:
			s.events.Push(event.GameEvent{Type: event.EventRoundEnded, Frame: next.Frame, Payload: &event.ScorePayload{Scores: next.Scores}})
		case engine.RoundActive:
			s.events.Push(event.GameEvent{Type: event.EventRoundStarted, Frame: next.Frame, Payload: &event.FramePayload{Count: int(next.RoundNumber)}})
		}
	}
}

func sum(scores []uint32) uint64 {
	var total uint64
	for _, v := range scores {
		total += uint64(v)
	}
	return total
}

// fail records a defect and aborts the scheduler
func (s *Scheduler) fail(op string, err error) error {
	d := &DefectError{Op: op, Frame: s.current, Err: err}
	s.defect.CompareAndSwap(nil, d)
	log.Printf("rollback: %v", d)
	return d
}

// recoverDefect converts a panic inside the pipeline into a DefectError
func (s *Scheduler) recoverDefect(op string, err *error) {
	if r := recover(); r != nil {
		cause, ok := r.(error)
		if !ok {
			cause = fmt.Errorf("%v", r)
		}
		*err = s.fail(op, cause)
	}
}
