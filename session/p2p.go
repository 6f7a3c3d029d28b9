package session

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/network"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/status"
)

// Link carries messages to and from the other room members
type Link interface {
	Send(msg *network.Message) bool
	Messages() <-chan *network.Message
}

type remotePeer struct {
	handle       core.PlayerHandle
	lastSeen     time.Time
	interrupted  bool
	disconnected bool
}

// P2PSession exchanges confirmed inputs and checksums with remote players over a Link
// Each process owns exactly one handle; the others are predicted until their inputs arrive
type P2PSession struct {
	link       Link
	local      core.PlayerHandle
	numPlayers int
	delay      int

	queues queueSet
	book   *checksumBook
	peers  []*remotePeer

	events  *event.EventQueue
	metrics *status.Registry

	lastBeat     time.Time
	lastAdvanced core.Frame
	linkClosed   bool

	mSent      *atomic.Int64
	mReceived  *atomic.Int64
	mPeers     *atomic.Int64
	mPredicted *atomic.Int64
	advantage  *status.AtomicFloat
}

// NewP2PSession creates a session for the handle the relay assigned in roster
func NewP2PSession(link Link, roster network.RosterPayload, delay int,
	events *event.EventQueue, metrics *status.Registry) (*P2PSession, error) {

	n := int(roster.Players)
	if n < 2 || n > parameter.MaxPlayers || int(roster.Handle) >= n {
		return nil, fmt.Errorf("session: %w: %d players, handle %d", ErrPlayerCount, n, roster.Handle)
	}
	if delay < 0 || delay > parameter.MaxInputDelay {
		return nil, fmt.Errorf("session: %w: %d", ErrInputDelay, delay)
	}
	if events == nil {
		events = event.NewEventQueue()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}

	s := &P2PSession{
		link:         link,
		local:        roster.Handle,
		numPlayers:   n,
		delay:        delay,
		queues:       newQueueSet(n, delay),
		events:       events,
		metrics:      metrics,
		lastAdvanced: core.NullFrame,

		mSent:      metrics.Ints.Get(status.KeyMessagesSent),
		mReceived:  metrics.Ints.Get(status.KeyMessagesReceived),
		mPeers:     metrics.Ints.Get(status.KeyPeersConnected),
		mPredicted: metrics.Ints.Get(status.KeyPredictionFrames),
		advantage:  metrics.Floats.Get(status.KeyFrameAdvantage),
	}

	var remotes []core.PlayerHandle
	for i := 0; i < n; i++ {
		h := core.PlayerHandle(i)
		if h == s.local {
			continue
		}
		remotes = append(remotes, h)
		s.peers = append(s.peers, &remotePeer{handle: h})
	}
	s.book = newChecksumBook(remotes)
	s.mPeers.Store(int64(len(remotes)))

	log.Printf("session: p2p as player %d of %d, input delay %d", s.local, n, delay)
	events.Push(event.GameEvent{
		Type:    event.EventSynchronized,
		Payload: &event.RosterPayload{Local: []core.PlayerHandle{s.local}, Players: n},
		Frame:   core.NullFrame,
	})
	return s, nil
}

func (s *P2PSession) NumPlayers() int {
	return s.numPlayers
}

func (s *P2PSession) LocalHandles() []core.PlayerHandle {
	return []core.PlayerHandle{s.local}
}

// AddLocalInput confirms in for frame+delay and sends it to the room
func (s *P2PSession) AddLocalInput(frame core.Frame, handle core.PlayerHandle, in input.Input) error {
	if handle != s.local {
		return fmt.Errorf("session: %w: %d", ErrNotLocal, handle)
	}
	target := frame + core.Frame(s.delay)
	if err := s.queues[handle].Add(target, in); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.send(network.MsgInput, &network.InputPayload{
		Handle: handle,
		Start:  target,
		Inputs: []input.Input{in},
	})
	return nil
}

func (s *P2PSession) Inputs(frame core.Frame) []input.Input {
	if c := s.queues.confirmedFrame(); c < frame {
		s.mPredicted.Store(int64(frame - c))
	} else {
		s.mPredicted.Store(0)
	}
	return s.queues.inputs(frame)
}

func (s *P2PSession) ConfirmedInput(frame core.Frame, handle core.PlayerHandle) (input.Input, bool) {
	if int(handle) >= s.numPlayers {
		return input.Input{}, false
	}
	return s.queues[handle].Confirmed(frame)
}

func (s *P2PSession) PollRollback() (core.Frame, bool) {
	return s.queues.firstIncorrect()
}

func (s *P2PSession) RemoteChecksum(frame core.Frame, peer core.PlayerHandle) (uint64, bool) {
	return s.book.remoteSum(frame, peer)
}

func (s *P2PSession) ConfirmedFrame() core.Frame {
	return s.queues.confirmedFrame()
}

func (s *P2PSession) Advanced(frame core.Frame, _ uint64, _ bool) {
	s.lastAdvanced = frame
}

// SendChecksum compares the local checksum with peer reports and publishes it
func (s *P2PSession) SendChecksum(frame core.Frame, sum uint64) {
	for _, d := range s.book.addLocal(frame, sum) {
		reportDesync(s.events, s.metrics, d)
	}
	s.send(network.MsgChecksum, &network.ChecksumPayload{Handle: s.local, Frame: frame, Sum: sum})
}

func (s *P2PSession) Discard(frame core.Frame) {
	s.queues.discard(frame)
}

// Poll drains received messages, sends a heartbeat when due and updates peer liveness
func (s *P2PSession) Poll(now time.Time) {
	s.drain(now)

	if now.Sub(s.lastBeat) >= parameter.HeartbeatInterval {
		s.lastBeat = now
		s.send(network.MsgHeartbeat, &network.HandlePayload{Handle: s.local})
	}

	for _, p := range s.peers {
		if p.disconnected {
			continue
		}
		if p.lastSeen.IsZero() {
			p.lastSeen = now
			continue
		}
		silence := now.Sub(p.lastSeen)
		switch {
		case silence >= parameter.DisconnectTimeout:
			s.disconnect(p, "timeout")
		case silence >= parameter.InterruptTimeout && !p.interrupted:
			p.interrupted = true
			s.events.Push(event.GameEvent{
				Type:    event.EventNetworkInterrupted,
				Payload: &event.PeerPayload{Handle: p.handle},
				Frame:   s.lastAdvanced,
			})
		}
	}
}

func (s *P2PSession) drain(now time.Time) {
	if s.linkClosed {
		return
	}
	for {
		select {
		case msg, ok := <-s.link.Messages():
			if !ok {
				s.linkClosed = true
				for _, p := range s.peers {
					s.disconnect(p, "link closed")
				}
				return
			}
			s.mReceived.Add(1)
			s.handle(now, msg)
		default:
			return
		}
	}
}

func (s *P2PSession) handle(now time.Time, msg *network.Message) {
	switch msg.Type {
	case network.MsgInput:
		var p network.InputPayload
		if err := network.Unpack(msg, &p); err != nil {
			log.Printf("session: %v", err)
			return
		}
		peer := s.peer(p.Handle)
		if peer == nil {
			return
		}
		s.touch(peer, now)
		for i, in := range p.Inputs {
			if err := s.queues[p.Handle].Add(p.Start+core.Frame(i), in); err != nil {
				log.Printf("session: dropping player %d: %v", p.Handle, err)
				s.disconnect(peer, "bad input")
				return
			}
		}
		if s.lastAdvanced >= 0 {
			remote := p.Start + core.Frame(len(p.Inputs)-1) - core.Frame(s.delay)
			s.advantage.Smooth(float64(s.lastAdvanced-remote), 0.1)
		}

	case network.MsgChecksum:
		var p network.ChecksumPayload
		if err := network.Unpack(msg, &p); err != nil {
			log.Printf("session: %v", err)
			return
		}
		peer := s.peer(p.Handle)
		if peer == nil {
			return
		}
		s.touch(peer, now)
		if d := s.book.addRemote(p.Handle, p.Frame, p.Sum); d != nil {
			reportDesync(s.events, s.metrics, *d)
		}

	case network.MsgHeartbeat:
		var p network.HandlePayload
		if err := network.Unpack(msg, &p); err != nil {
			return
		}
		if peer := s.peer(p.Handle); peer != nil {
			s.touch(peer, now)
		}

	case network.MsgDisconnect:
		var p network.HandlePayload
		if err := network.Unpack(msg, &p); err != nil {
			return
		}
		if peer := s.peer(p.Handle); peer != nil {
			s.disconnect(peer, "left room")
		}
	}
}

func (s *P2PSession) peer(h core.PlayerHandle) *remotePeer {
	for _, p := range s.peers {
		if p.handle == h {
			if p.disconnected {
				return nil
			}
			return p
		}
	}
	return nil
}

func (s *P2PSession) touch(p *remotePeer, now time.Time) {
	p.lastSeen = now
	if p.interrupted {
		p.interrupted = false
		s.events.Push(event.GameEvent{
			Type:    event.EventNetworkResumed,
			Payload: &event.PeerPayload{Handle: p.handle},
			Frame:   s.lastAdvanced,
		})
	}
}

// disconnect closes the player's queue so the match continues with neutral input for it
func (s *P2PSession) disconnect(p *remotePeer, reason string) {
	if p.disconnected {
		return
	}
	p.disconnected = true
	s.queues[p.handle].Close()
	s.mPeers.Add(-1)
	log.Printf("session: player %d disconnected: %s", p.handle, reason)
	s.events.Push(event.GameEvent{
		Type:    event.EventPeerDisconnected,
		Payload: &event.PeerPayload{Handle: p.handle},
		Frame:   s.lastAdvanced,
	})
}

func (s *P2PSession) send(t network.MessageType, v any) {
	msg, err := network.Pack(t, v)
	if err != nil {
		log.Printf("session: %v", err)
		return
	}
	if !s.link.Send(msg) {
		log.Printf("session: %s not sent", t)
		return
	}
	s.mSent.Add(1)
}
