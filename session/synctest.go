package session

import (
	"fmt"
	"log"
	"time"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/status"
)

// SyncTestSession feeds every handle locally and forces a rollback of checkDistance frames
// after each new frame; checksums of the re-simulation are compared with the first pass
type SyncTestSession struct {
	numPlayers    int
	delay         int
	checkDistance int

	queues queueSet
	book   *checksumBook
	local  []core.PlayerHandle

	latest core.Frame // Highest frame simulated so far
	forced core.Frame // Last forced rollback target

	events  *event.EventQueue
	metrics *status.Registry
}

// NewSyncTestSession creates a session with all numPlayers handles local
// checkDistance must stay below the scheduler's MaxRollback
func NewSyncTestSession(numPlayers, delay, checkDistance int,
	events *event.EventQueue, metrics *status.Registry) (*SyncTestSession, error) {

	if numPlayers < 1 || numPlayers > parameter.MaxPlayers {
		return nil, fmt.Errorf("session: %w: %d", ErrPlayerCount, numPlayers)
	}
	if delay < 0 || delay > parameter.MaxInputDelay {
		return nil, fmt.Errorf("session: %w: %d", ErrInputDelay, delay)
	}
	if checkDistance < 1 {
		return nil, fmt.Errorf("session: %w: %d", ErrCheckDistance, checkDistance)
	}
	if events == nil {
		events = event.NewEventQueue()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}

	local := make([]core.PlayerHandle, numPlayers)
	for i := range local {
		local[i] = core.PlayerHandle(i)
	}

	s := &SyncTestSession{
		numPlayers:    numPlayers,
		delay:         delay,
		checkDistance: checkDistance,
		queues:        newQueueSet(numPlayers, delay),
		book:          newChecksumBook([]core.PlayerHandle{0}),
		local:         local,
		latest:        core.NullFrame,
		forced:        core.NullFrame,
		events:        events,
		metrics:       metrics,
	}

	log.Printf("session: synctest with %d players, check distance %d", numPlayers, checkDistance)
	events.Push(event.GameEvent{
		Type:    event.EventSynchronized,
		Payload: &event.RosterPayload{Local: local, Players: numPlayers},
		Frame:   core.NullFrame,
	})
	return s, nil
}

func (s *SyncTestSession) NumPlayers() int {
	return s.numPlayers
}

func (s *SyncTestSession) LocalHandles() []core.PlayerHandle {
	return s.local
}

func (s *SyncTestSession) AddLocalInput(frame core.Frame, handle core.PlayerHandle, in input.Input) error {
	if int(handle) >= s.numPlayers {
		return fmt.Errorf("session: %w: %d", ErrNotLocal, handle)
	}
	if err := s.queues[handle].Add(frame+core.Frame(s.delay), in); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

func (s *SyncTestSession) Inputs(frame core.Frame) []input.Input {
	return s.queues.inputs(frame)
}

func (s *SyncTestSession) ConfirmedInput(frame core.Frame, handle core.PlayerHandle) (input.Input, bool) {
	if int(handle) >= s.numPlayers {
		return input.Input{}, false
	}
	return s.queues[handle].Confirmed(frame)
}

// PollRollback returns the forced rollback target once per simulated frame
func (s *SyncTestSession) PollRollback() (core.Frame, bool) {
	if f, ok := s.queues.firstIncorrect(); ok {
		return f, true
	}
	target := s.latest + 1 - core.Frame(s.checkDistance)
	if target < 0 || target <= s.forced {
		return core.NullFrame, false
	}
	s.forced = target
	return target, true
}

// RemoteChecksum returns the first-pass checksum of frame
func (s *SyncTestSession) RemoteChecksum(frame core.Frame, _ core.PlayerHandle) (uint64, bool) {
	return s.book.remoteSum(frame, 0)
}

// ConfirmedFrame trails the latest frame by the check distance, so no forced rollback reaches it
func (s *SyncTestSession) ConfirmedFrame() core.Frame {
	c := s.latest - core.Frame(s.checkDistance)
	if q := s.queues.confirmedFrame(); q < c {
		c = q
	}
	if c < 0 {
		return core.NullFrame
	}
	return c
}

// Advanced records the first-pass checksum
func (s *SyncTestSession) Advanced(frame core.Frame, sum uint64, sampled bool) {
	if frame > s.latest {
		s.latest = frame
	}
	if sampled {
		if d := s.book.addRemote(0, frame, sum); d != nil {
			reportDesync(s.events, s.metrics, *d)
		}
	}
}

// SendChecksum compares the settled checksum of frame with its first pass
func (s *SyncTestSession) SendChecksum(frame core.Frame, sum uint64) {
	for _, d := range s.book.addLocal(frame, sum) {
		reportDesync(s.events, s.metrics, d)
	}
}

func (s *SyncTestSession) Discard(frame core.Frame) {
	s.queues.discard(frame)
}

func (s *SyncTestSession) Poll(time.Time) {}
