package event

// EventType represents the type of session event
type EventType int

const (
	// === Session Events ===

	// EventSynchronizing reports the room was joined and the session waits for it to fill
	// Trigger: Relay dialed | Payload: *PeerPayload (Addr)
	EventSynchronizing EventType = iota

	// EventSynchronized signals all peers are connected and the match may start
	// Trigger: Session handshake complete | Payload: *RosterPayload
	EventSynchronized

	// EventNetworkInterrupted signals a peer went silent; simulation continues on prediction
	// Trigger: InterruptTimeout elapsed | Payload: *PeerPayload
	EventNetworkInterrupted

	// EventNetworkResumed signals an interrupted peer is heard from again
	// Trigger: Message after interruption | Payload: *PeerPayload
	EventNetworkResumed

	// EventPeerDisconnected signals a peer was dropped
	// Trigger: DisconnectTimeout elapsed or socket closed | Payload: *PeerPayload
	EventPeerDisconnected

	// EventDesyncDetected reports mismatching checksums for a confirmed frame
	// Trigger: Checksum comparison | Payload: *DesyncPayload
	EventDesyncDetected

	// === Match Events ===
	// Derived from settled views on the live advance; cosmetic only, never fed back

	// EventBulletFired signals new bullets in the settled view
	// Consumer: audio | Payload: *FramePayload
	EventBulletFired

	// EventPlayerEliminated signals a score change
	// Consumer: audio, render | Payload: *ScorePayload
	EventPlayerEliminated

	// EventRoundEnded signals entry into RoundEnd
	// Payload: *ScorePayload
	EventRoundEnded

	// EventRoundStarted signals entry into ActiveRound
	// Payload: *FramePayload
	EventRoundStarted
)

var typeNames = map[EventType]string{
	EventSynchronizing:      "synchronizing",
	EventSynchronized:       "synchronized",
	EventNetworkInterrupted: "network_interrupted",
	EventNetworkResumed:     "network_resumed",
	EventPeerDisconnected:   "peer_disconnected",
	EventDesyncDetected:     "desync_detected",
	EventBulletFired:        "bullet_fired",
	EventPlayerEliminated:   "player_eliminated",
	EventRoundEnded:         "round_ended",
	EventRoundStarted:       "round_started",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}
