package network

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// PeerID uniquely identifies a link within one process
type PeerID uint32

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateDisconnecting
)

// Peer is one websocket link carrying framed messages
type Peer struct {
	ID       PeerID
	Addr     string
	State    atomic.Uint32 // ConnState
	LastSeen atomic.Int64  // UnixNano

	// Sequence tracking
	OutSeq atomic.Uint32 // Next outbound sequence
	InSeq  atomic.Uint32 // Last processed inbound sequence

	conn   *websocket.Conn
	config *Config

	// Send queue
	sendCh chan *Message

	// Lifecycle
	closeCh   chan struct{}
	closeOnce sync.Once
}

// newPeer wraps an established websocket connection
func newPeer(id PeerID, conn *websocket.Conn, cfg *Config) *Peer {
	p := &Peer{
		ID:      id,
		Addr:    conn.RemoteAddr().String(),
		conn:    conn,
		config:  cfg,
		sendCh:  make(chan *Message, cfg.SendQueueSize),
		closeCh: make(chan struct{}),
	}
	p.State.Store(uint32(StateConnected))
	p.LastSeen.Store(time.Now().UnixNano())
	if cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}
	return p
}

// Send queues a message for transmission
// Returns false if the peer is disconnected or the queue is full
func (p *Peer) Send(msg *Message) bool {
	if ConnState(p.State.Load()) != StateConnected {
		return false
	}

	msg.Seq = p.OutSeq.Add(1)
	msg.Ack = p.InSeq.Load()

	select {
	case p.sendCh <- msg:
		return true
	default:
		return false
	}
}

// Done is closed once the link is shut down
func (p *Peer) Done() <-chan struct{} {
	return p.closeCh
}

// Close initiates shutdown; safe to call more than once
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.State.Store(uint32(StateDisconnecting))
		close(p.closeCh)
		p.conn.Close()
		p.State.Store(uint32(StateDisconnected))
	})
}

func (p *Peer) extendDeadline() {
	if p.config.ReadTimeout > 0 {
		p.conn.SetReadDeadline(time.Now().Add(p.config.ReadTimeout))
	}
}

// readLoop reads binary frames until the link fails, handing each message to handler
func (p *Peer) readLoop(handler func(*Peer, *Message)) {
	defer p.Close()

	p.extendDeadline()
	p.conn.SetPongHandler(func(string) error {
		p.extendDeadline()
		return nil
	})

	for {
		kind, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}

		msg, err := Parse(data)
		if err != nil {
			return
		}

		p.extendDeadline()
		p.LastSeen.Store(time.Now().UnixNano())

		if msg.Seq > p.InSeq.Load() {
			p.InSeq.Store(msg.Seq)
		}

		handler(p, msg)
	}
}

// writeLoop sends queued messages and keeps the link alive with pings
func (p *Peer) writeLoop() {
	defer p.Close()

	var ping <-chan time.Time
	if p.config.PingInterval > 0 {
		ticker := time.NewTicker(p.config.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-p.closeCh:
			p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(p.config.WriteTimeout))
			return
		case <-ping:
			if err := p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(p.config.WriteTimeout)); err != nil {
				return
			}
		case msg := <-p.sendCh:
			if err := p.write(msg); err != nil {
				return
			}
		}
	}
}

func (p *Peer) write(msg *Message) error {
	p.conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
	w, err := p.conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := msg.Encode(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
