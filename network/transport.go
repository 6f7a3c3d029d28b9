package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned when the link ends before the room is full
var ErrClosed = errors.New("transport closed")

// Transport is a client link to a relay room
// Session messages are delivered in arrival order on Messages; the roster is consumed internally
type Transport struct {
	config *Config
	peer   *Peer

	recvCh chan *Message

	ready     chan struct{}
	readyOnce sync.Once
	roster    RosterPayload // Written once before ready is closed

	running atomic.Bool
	wg      sync.WaitGroup
}

// Dial connects to the relay room at cfg.URL and starts the I/O loops
func Dial(ctx context.Context, cfg *Config) (*Transport, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.ConnectTimeout,
		ReadBufferSize:   cfg.ReadBufferSize,
		WriteBufferSize:  cfg.WriteBufferSize,
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("network: dial %s: %w", cfg.URL, err)
	}

	t := &Transport{
		config: cfg,
		peer:   newPeer(1, conn, cfg),
		recvCh: make(chan *Message, cfg.RecvQueueSize),
		ready:  make(chan struct{}),
	}
	t.running.Store(true)

	t.wg.Add(2)
	go func() {
		defer t.wg.Done()
		t.peer.readLoop(t.route)
		t.running.Store(false)
		close(t.recvCh)
	}()
	go func() {
		defer t.wg.Done()
		t.peer.writeLoop()
	}()

	return t, nil
}

// route consumes the roster and queues everything else
// Blocks when the receive queue is full so no input is ever dropped
func (t *Transport) route(_ *Peer, msg *Message) {
	if msg.Type == MsgRoster {
		var r RosterPayload
		if err := Unpack(msg, &r); err != nil || r.Players < 2 || uint8(r.Handle) >= r.Players {
			t.peer.Close()
			return
		}
		t.readyOnce.Do(func() {
			t.roster = r
			close(t.ready)
		})
		return
	}

	select {
	case t.recvCh <- msg:
	case <-t.peer.Done():
	}
}

// Ready is closed once the relay has assigned a handle
func (t *Transport) Ready() <-chan struct{} {
	return t.ready
}

// Roster returns the handle assignment, false before the room is full
func (t *Transport) Roster() (RosterPayload, bool) {
	select {
	case <-t.ready:
		return t.roster, true
	default:
		return RosterPayload{}, false
	}
}

// WaitRoster blocks until the room is full, the link fails or ctx ends
func (t *Transport) WaitRoster(ctx context.Context) (RosterPayload, error) {
	select {
	case <-t.ready:
		return t.roster, nil
	case <-t.peer.Done():
		return RosterPayload{}, ErrClosed
	case <-ctx.Done():
		return RosterPayload{}, ctx.Err()
	}
}

// Send queues msg for the relay, which forwards it to every other room member
func (t *Transport) Send(msg *Message) bool {
	return t.peer.Send(msg)
}

// Messages delivers forwarded messages; closed when the link ends
func (t *Transport) Messages() <-chan *Message {
	return t.recvCh
}

// Close shuts the link down and waits for the I/O loops
func (t *Transport) Close() error {
	t.peer.Close()
	t.wg.Wait()
	return nil
}

// IsRunning reports whether the link is still up
func (t *Transport) IsRunning() bool {
	return t.running.Load()
}
