package core

// Entity is a stable identifier for a record in the simulation arena
// IDs are allocated monotonically and never reused within a session
type Entity uint64

// NullEntity is the zero value, never allocated
const NullEntity Entity = 0

// PlayerHandle identifies a player slot (0..N-1), shared by all peers
type PlayerHandle uint8
