package network

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/clinuxrulz/flying-shooter/core"
)

var ErrRoomFull = errors.New("room full")

// Room groups the links of one match; a member's handle is its join index
type Room struct {
	mu      sync.RWMutex
	name    string
	size    int
	peers   []*Peer
	started bool
}

func newRoom(name string, size int) *Room {
	return &Room{
		name:  name,
		size:  size,
		peers: make([]*Peer, 0, size),
	}
}

// join appends p and reports whether the room just became full
func (r *Room) join(p *Peer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started || len(r.peers) >= r.size {
		return false, ErrRoomFull
	}
	r.peers = append(r.peers, p)
	return len(r.peers) == r.size, nil
}

// start sends every member its roster; members joined in handle order
func (r *Room) start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = true
	for i, p := range r.peers {
		msg, err := Pack(MsgRoster, &RosterPayload{
			Handle:  core.PlayerHandle(i),
			Players: uint8(r.size),
			Room:    r.name,
		})
		if err != nil {
			log.Printf("relay: room %s: %v", r.name, err)
			continue
		}
		p.Send(msg)
	}
}

// forward relays msg from one member to all others
// Messages sent before the room is full are dropped
func (r *Room) forward(from *Peer, msg *Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.started {
		return
	}
	for _, p := range r.peers {
		if p == from {
			continue
		}
		clone := *msg
		clone.Flags |= FlagRelay
		p.Send(&clone)
	}
}

// leave removes p; started rooms notify the remaining members
// Returns true when the room has no members left
func (r *Room) leave(p *Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, member := range r.peers {
		if member == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return len(r.peers) == 0
	}

	if !r.started {
		r.peers = append(r.peers[:idx], r.peers[idx+1:]...)
		return len(r.peers) == 0
	}

	r.peers[idx] = nil
	notice, err := Pack(MsgDisconnect, &HandlePayload{Handle: core.PlayerHandle(idx)})
	remaining := 0
	for _, member := range r.peers {
		if member == nil {
			continue
		}
		remaining++
		if err == nil {
			member.Send(notice.clone())
		}
	}
	return remaining == 0
}

// Count returns the number of connected members
func (r *Room) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.peers {
		if p != nil {
			n++
		}
	}
	return n
}

// close disconnects all members
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.peers {
		if p != nil {
			p.Close()
		}
	}
}

func (m *Message) clone() *Message {
	c := *m
	return &c
}

// Relay is a websocket room server: clients of the same path and ?next=N
// are grouped in arrival order and their messages are forwarded to each other
type Relay struct {
	config   *Config
	upgrader websocket.Upgrader

	mu      sync.Mutex
	waiting map[string]*Room // Rooms still filling, keyed by path and size
	active  map[*Room]struct{}
	nextID  atomic.Uint32
	closed  bool
}

// NewRelay creates a relay with cfg limits
func NewRelay(cfg *Config) *Relay {
	return &Relay{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		waiting: make(map[string]*Room),
		active:  make(map[*Room]struct{}),
	}
}

// roomSize parses ?next=N, defaulting to two players
func (rl *Relay) roomSize(req *http.Request) (int, bool) {
	raw := req.URL.Query().Get("next")
	if raw == "" {
		return 2, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 2 || n > rl.config.MaxRoomSize {
		return 0, false
	}
	return n, true
}

// ServeHTTP upgrades the request and serves the link until it closes
func (rl *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	size, ok := rl.roomSize(req)
	if !ok {
		http.Error(w, "invalid room size", http.StatusBadRequest)
		return
	}

	conn, err := rl.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("relay: upgrade: %v", err)
		return
	}

	peer := newPeer(PeerID(rl.nextID.Add(1)), conn, rl.config)
	room, err := rl.admit(req.URL.Path+"?next="+strconv.Itoa(size), size, peer)
	if err != nil {
		log.Printf("relay: %s: %v", peer.Addr, err)
		peer.Close()
		return
	}

	go peer.writeLoop()
	peer.readLoop(room.forward)

	rl.mu.Lock()
	if room.leave(peer) {
		delete(rl.active, room)
		if rl.waiting[room.name] == room {
			delete(rl.waiting, room.name)
		}
	}
	rl.mu.Unlock()
	log.Printf("relay: %s left room %s", peer.Addr, room.name)
}

// admit places peer in the filling room for key, starting it once full
func (rl *Relay) admit(key string, size int, peer *Peer) (*Room, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return nil, ErrClosed
	}

	room := rl.waiting[key]
	if room == nil {
		room = newRoom(key, size)
		rl.waiting[key] = room
		rl.active[room] = struct{}{}
	}

	full, err := room.join(peer)
	if err != nil {
		return nil, err
	}
	if full {
		delete(rl.waiting, key)
		room.start()
		log.Printf("relay: room %s started with %d players", key, size)
	}
	return room, nil
}

// RoomCount returns the number of rooms with at least one member
func (rl *Relay) RoomCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.active)
}

// Close disconnects every member and refuses new links
func (rl *Relay) Close() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.closed = true
	for room := range rl.active {
		room.close()
	}
}
