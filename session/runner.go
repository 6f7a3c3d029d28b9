package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/rollback"
)

// DeviceFunc samples the local device once per frame
type DeviceFunc func(now time.Time) input.Input

// Runner drives a Scheduler from a Session at the fixed tick rate
// Order per tick: poll the session, correct mispredictions, confirm, publish checksums, advance
type Runner struct {
	sched   *rollback.Scheduler
	session Session
	device  DeviceFunc

	inputFrame    core.Frame // Next frame whose local input has not been added
	checksumFrame core.Frame // Next frame whose checksum has not been published

	dumpDir  string
	dumpReqs chan dumpRequest
}

type dumpRequest struct {
	frame core.Frame
	peer  core.PlayerHandle
}

// maxPendingDumps drops further requests while the runner is behind
const maxPendingDumps = 8

// NewRunner creates a runner; device may be nil for neutral local input
func NewRunner(sched *rollback.Scheduler, session Session, device DeviceFunc) *Runner {
	if device == nil {
		device = func(time.Time) input.Input { return input.Input{} }
	}
	return &Runner{
		sched:   sched,
		session: session,
		device:  device,
	}
}

// EnableDumps makes RequestDump write desync reports under dir; call before Run
func (r *Runner) EnableDumps(dir string) {
	r.dumpDir = dir
	r.dumpReqs = make(chan dumpRequest, maxPendingDumps)
}

// RequestDump asks the runner goroutine to write a report of the mismatch at frame
// Safe from any goroutine; returns false when dumps are disabled or the queue is full
func (r *Runner) RequestDump(frame core.Frame, peer core.PlayerHandle) bool {
	if r.dumpReqs == nil {
		return false
	}
	select {
	case r.dumpReqs <- dumpRequest{frame: frame, peer: peer}:
		return true
	default:
		return false
	}
}

// Run ticks until ctx is cancelled or the scheduler reports a defect
// Cancellation takes effect between frames
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(parameter.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := r.Tick(now); err != nil {
				log.Printf("session: runner stopped: %v", err)
				return err
			}
		}
	}
}

// Tick performs one runner step
// Waiting conditions (threshold, outer phase) return nil; defects are returned
func (r *Runner) Tick(now time.Time) error {
	r.session.Poll(now)
	r.writeDumps()

	// Read before polling mispredictions: every frame up to here already had its input
	confirmed := r.session.ConfirmedFrame()

	if f, ok := r.session.PollRollback(); ok {
		if err := r.correct(f); err != nil {
			return err
		}
	}

	current := r.sched.CurrentFrame()
	if c := min(confirmed, current-1); c >= 0 {
		r.sched.Confirm(c)
		r.session.Discard(c)
		r.publishChecksums(c, current)
	}

	if r.inputFrame <= current {
		in := r.device(now)
		for i, h := range r.session.LocalHandles() {
			// Extra local handles of a synctest session stay neutral
			local := in
			if i > 0 {
				local = input.Input{}
			}
			if err := r.session.AddLocalInput(current, h, local); err != nil {
				return fmt.Errorf("session: local input: %w", err)
			}
		}
		r.inputFrame = current + 1
	}

	err := r.sched.Advance(current, r.session.Inputs(current))
	switch {
	case err == nil:
		sum, sampled := r.sched.LocalChecksum(current)
		r.session.Advanced(current, sum, sampled)
		return nil
	case errors.Is(err, rollback.ErrPredictionThreshold), errors.Is(err, engine.ErrNotInGame):
		return nil
	default:
		return err
	}
}

// writeDumps serves pending dump requests; failures are logged, never fatal
func (r *Runner) writeDumps() {
	for {
		select {
		case req := <-r.dumpReqs:
			rep, err := buildDesyncReport(r.sched, r.session, r.session.NumPlayers(), req.frame, req.peer)
			if err == nil {
				var path string
				path, err = WriteDesyncReport(r.dumpDir, rep)
				if err == nil {
					log.Printf("session: desync at frame %d dumped to %s", req.frame, path)
				}
			}
			if err != nil {
				log.Printf("session: %v", err)
			}
		default:
			return
		}
	}
}

// correct re-simulates from the first mispredicted frame with the newest inputs
func (r *Runner) correct(frame core.Frame) error {
	current := r.sched.CurrentFrame()
	if frame >= current {
		// Prediction was never simulated
		return nil
	}
	corrected := make([][]input.Input, current-frame)
	for i := range corrected {
		corrected[i] = r.session.Inputs(frame + core.Frame(i))
	}
	return r.sched.RollbackTo(frame, corrected)
}

// publishChecksums sends every sampled checksum that no rollback can change anymore
// The checksum of frame F covers inputs before F, so it settles once F-1 is confirmed
func (r *Runner) publishChecksums(confirmed, current core.Frame) {
	for ; r.checksumFrame <= confirmed+1 && r.checksumFrame < current; r.checksumFrame++ {
		if sum, ok := r.sched.LocalChecksum(r.checksumFrame); ok {
			r.session.SendChecksum(r.checksumFrame, sum)
		}
	}
}
