package parameter

import "time"

// Logical clock
const (
	// TickRate is the number of simulation frames per second
	TickRate = 60

	// TickInterval is the wall-clock pacing of the session runner, never read by the pipeline
	TickInterval = time.Second / TickRate

	// FrameUpdateInterval is the host redraw interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond
)

// FixedDelta is the logical seconds advanced by one frame
// Every rollback-participating calculation uses this instead of measured time
const FixedDelta float32 = 1.0 / TickRate

// Rollback defaults
const (
	// DefaultInputDelay is the number of frames a local input is held before use
	DefaultInputDelay = 2

	// DefaultMaxRollback is the snapshot retention depth (max prediction window)
	DefaultMaxRollback = 8

	// DefaultChecksumInterval samples a checksum every N frames
	DefaultChecksumInterval = 1

	// MaxInputDelay bounds the configurable input delay
	MaxInputDelay = 16

	// DefaultCheckDistance is the forced rollback depth of a synctest session
	DefaultCheckDistance = 2

	// HistoryLength is the slot count of the input, prediction and checksum rings
	HistoryLength = 128

	// MaxRollbackLimit keeps every outstanding prediction and delayed input inside HistoryLength
	MaxRollbackLimit = HistoryLength - MaxInputDelay - 1

	// ChecksumSeed is shared by every peer; changing it breaks cross-version comparison
	ChecksumSeed uint64 = 0x666c79696e67
)

// Event queue
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// Session
const (
	// MaxPlayers is the largest supported player count
	MaxPlayers = 4

	// DefaultNumPlayers is the two-ship duel
	DefaultNumPlayers = 2

	// HeartbeatInterval paces liveness messages while no input is sent
	HeartbeatInterval = 200 * time.Millisecond

	// InterruptTimeout marks a peer as interrupted after this much silence
	InterruptTimeout = 750 * time.Millisecond

	// DisconnectTimeout drops a peer after this much silence
	DisconnectTimeout = 5 * time.Second

	// DefaultRoomURL is the relay room used when no configuration overrides it
	DefaultRoomURL = "ws://127.0.0.1:3536/flying_shooter?next=2"
)
