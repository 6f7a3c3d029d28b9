package event

import (
	"fmt"

	"github.com/clinuxrulz/flying-shooter/core"
)

// GameEvent is one entry of the session event queue
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   core.Frame
}

// PeerPayload identifies the peer an event concerns
type PeerPayload struct {
	Handle core.PlayerHandle
	Addr   string
}

// RosterPayload lists the handles taking part in a match
type RosterPayload struct {
	Local   []core.PlayerHandle
	Players int
}

// DesyncPayload carries both checksums of a mismatching frame
type DesyncPayload struct {
	Frame  core.Frame
	Local  uint64
	Remote uint64
	Peer   core.PlayerHandle
}

func (p *DesyncPayload) String() string {
	return fmt.Sprintf("desync at frame %d with player %d: local %016x remote %016x",
		p.Frame, p.Peer, p.Local, p.Remote)
}

// ScorePayload carries the score table after a change
type ScorePayload struct {
	Scores []uint32
}

// FramePayload carries a count for the event frame: bullets fired or round number
type FramePayload struct {
	Count int
}
