package session

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/rollback"
	"github.com/clinuxrulz/flying-shooter/status"
)

const maxFrame = core.Frame(math.MaxInt32)

var (
	ErrNotLocal      = errors.New("handle is not local")
	ErrPlayerCount   = errors.New("player count out of range")
	ErrInputDelay    = errors.New("input delay out of range")
	ErrCheckDistance = errors.New("check distance out of range")
)

// Session is the input side of a match as the Runner drives it
// Implementations are not safe for concurrent use; the Runner goroutine owns them
type Session interface {
	rollback.InputSource

	// NumPlayers returns the number of handles in the match
	NumPlayers() int

	// LocalHandles returns the handles fed by this process, ascending
	LocalHandles() []core.PlayerHandle

	// AddLocalInput schedules the device input sampled at frame for a local handle
	AddLocalInput(frame core.Frame, handle core.PlayerHandle, in input.Input) error

	// Inputs returns one input per handle for frame, predicting the missing ones
	Inputs(frame core.Frame) []input.Input

	// ConfirmedFrame returns the highest frame whose inputs are all confirmed
	ConfirmedFrame() core.Frame

	// Advanced reports a frame simulated for the first time and its checksum, if sampled
	Advanced(frame core.Frame, sum uint64, sampled bool)

	// SendChecksum publishes the checksum of a confirmed frame
	SendChecksum(frame core.Frame, sum uint64)

	// Discard releases bookkeeping up to and including frame
	Discard(frame core.Frame)

	// Poll handles incoming traffic and timers
	Poll(now time.Time)
}

// queueSet is the per-handle input bookkeeping shared by session kinds
type queueSet []*InputQueue

func newQueueSet(numPlayers, delay int) queueSet {
	qs := make(queueSet, numPlayers)
	for i := range qs {
		qs[i] = NewInputQueue(core.PlayerHandle(i))
		// Frames before the delay never receive device input
		for f := 0; f < delay; f++ {
			qs[i].Add(core.Frame(f), input.Input{})
		}
	}
	return qs
}

func (qs queueSet) inputs(frame core.Frame) []input.Input {
	out := make([]input.Input, len(qs))
	for i, q := range qs {
		out[i], _ = q.Input(frame)
	}
	return out
}

func (qs queueSet) confirmedFrame() core.Frame {
	c := maxFrame
	for _, q := range qs {
		if f := q.LastConfirmed(); f < c {
			c = f
		}
	}
	return c
}

func (qs queueSet) firstIncorrect() (core.Frame, bool) {
	first := core.NullFrame
	for _, q := range qs {
		if f, ok := q.FirstIncorrect(); ok && (first < 0 || f < first) {
			first = f
		}
	}
	return first, first >= 0
}

func (qs queueSet) discard(frame core.Frame) {
	for _, q := range qs {
		q.Discard(frame)
	}
}

// reportDesync publishes a checksum mismatch
func reportDesync(events *event.EventQueue, metrics *status.Registry, d event.DesyncPayload) {
	log.Printf("session: %s", &d)
	metrics.Ints.Get(status.KeyDesyncs).Add(1)
	events.Push(event.GameEvent{
		Type:    event.EventDesyncDetected,
		Payload: &d,
		Frame:   d.Frame,
	})
}
