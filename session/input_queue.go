package session

import (
	"errors"
	"fmt"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

// inputQueueLength bounds how far confirmed inputs may run ahead of the discard frontier
const inputQueueLength = parameter.HistoryLength

var (
	ErrInputGap   = errors.New("input frames not consecutive")
	ErrQueueFull  = errors.New("input queue full")
	ErrStaleInput = errors.New("input for an already confirmed frame differs")
)

type inputRecord struct {
	frame core.Frame
	input input.Input
	valid bool
}

// InputQueue holds one player's confirmed inputs and the predictions handed out for the rest
// Confirmed inputs arrive in frame order; a prediction repeats the latest confirmed input
type InputQueue struct {
	handle core.PlayerHandle

	confirmed [inputQueueLength]inputRecord
	predicted [inputQueueLength]inputRecord

	lastConfirmed core.Frame  // Every frame up to here is confirmed
	lastInput     input.Input // Input of lastConfirmed
	discarded     core.Frame  // Frames up to here are no longer served

	firstIncorrect core.Frame // Earliest frame whose prediction was wrong, NullFrame if none
	closedFrom     core.Frame // Neutral and confirmed from here on, NullFrame while open
}

// NewInputQueue creates an empty queue for handle
func NewInputQueue(handle core.PlayerHandle) *InputQueue {
	return &InputQueue{
		handle:         handle,
		lastConfirmed:  core.NullFrame,
		discarded:      core.NullFrame,
		firstIncorrect: core.NullFrame,
		closedFrom:     core.NullFrame,
	}
}

func slotOf(frame core.Frame) int {
	return int(frame) % inputQueueLength
}

// Handle returns the owning player
func (q *InputQueue) Handle() core.PlayerHandle {
	return q.handle
}

// Add confirms in for frame; frame must follow the last confirmed frame
// A repeated frame with the same input is ignored
func (q *InputQueue) Add(frame core.Frame, in input.Input) error {
	if q.closedFrom >= 0 {
		return nil
	}
	if frame <= q.lastConfirmed {
		if got, ok := q.Confirmed(frame); ok && got != in {
			return fmt.Errorf("player %d frame %d: %w", q.handle, frame, ErrStaleInput)
		}
		return nil
	}
	if frame != q.lastConfirmed+1 {
		return fmt.Errorf("player %d: %w: got %d, want %d", q.handle, ErrInputGap, frame, q.lastConfirmed+1)
	}
	if int(frame-q.discarded) > inputQueueLength {
		return fmt.Errorf("player %d frame %d: %w", q.handle, frame, ErrQueueFull)
	}

	idx := slotOf(frame)
	q.confirmed[idx] = inputRecord{frame: frame, input: in, valid: true}
	q.lastConfirmed = frame
	q.lastInput = in

	if p := q.predicted[idx]; p.valid && p.frame == frame {
		if p.input != in {
			q.markIncorrect(frame)
		}
		q.predicted[idx] = inputRecord{}
	}
	return nil
}

// Input returns the confirmed input of frame, or records and returns a prediction
func (q *InputQueue) Input(frame core.Frame) (input.Input, bool) {
	if in, ok := q.Confirmed(frame); ok {
		return in, true
	}

	// TODO: weight predictions by recent button history instead of repeating the last input
	pred := q.lastInput
	q.predicted[slotOf(frame)] = inputRecord{frame: frame, input: pred, valid: true}
	return pred, false
}

// Confirmed returns the confirmed input of frame without predicting
func (q *InputQueue) Confirmed(frame core.Frame) (input.Input, bool) {
	if q.closedFrom >= 0 && frame >= q.closedFrom {
		return input.Input{}, true
	}
	if frame < 0 || frame > q.lastConfirmed || frame <= q.discarded {
		return input.Input{}, false
	}
	r := q.confirmed[slotOf(frame)]
	if !r.valid || r.frame != frame {
		return input.Input{}, false
	}
	return r.input, true
}

// LastConfirmed returns the confirmed frontier of this player
// A closed queue is confirmed for every frame
func (q *InputQueue) LastConfirmed() core.Frame {
	if q.closedFrom >= 0 {
		return maxFrame
	}
	return q.lastConfirmed
}

// FirstIncorrect returns and clears the earliest mispredicted frame
func (q *InputQueue) FirstIncorrect() (core.Frame, bool) {
	f := q.firstIncorrect
	q.firstIncorrect = core.NullFrame
	return f, f >= 0
}

// Close confirms neutral input for every frame after the last confirmed one
// Outstanding non-neutral predictions become mispredictions
func (q *InputQueue) Close() {
	if q.closedFrom >= 0 {
		return
	}
	q.closedFrom = q.lastConfirmed + 1
	for i := range q.predicted {
		p := q.predicted[i]
		if p.valid && p.frame >= q.closedFrom && !p.input.IsNeutral() {
			q.markIncorrect(p.frame)
		}
		q.predicted[i] = inputRecord{}
	}
}

// Closed reports whether Close was called
func (q *InputQueue) Closed() bool {
	return q.closedFrom >= 0
}

// Discard releases frames up to and including frame
func (q *InputQueue) Discard(frame core.Frame) {
	if frame <= q.discarded {
		return
	}
	q.discarded = frame
}

func (q *InputQueue) markIncorrect(frame core.Frame) {
	if q.firstIncorrect < 0 || frame < q.firstIncorrect {
		q.firstIncorrect = frame
	}
}
