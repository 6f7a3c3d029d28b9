package parameter

// Arena
const (
	// MapSize is the side length of the square arena in world units
	MapSize = 41

	// MapLimit clamps player positions to the arena interior
	MapLimit float32 = MapSize/2.0 - 0.5
)

// Ship movement
const (
	ThrustAcceleration float32 = 0.2
	ReverseFactor      float32 = 0.5
	MoveSpeed          float32 = 7.0
	TurnSpeed          float32 = 3.5 // radians per second at full deflection
	MaxVelocity        float32 = 2.5
)

// Weapons
const (
	PlayerRadius      float32 = 0.5
	BulletRadius      float32 = 0.025
	BulletSpeed       float32 = 20.0
	BulletSpawnMargin float32 = 0.05
	BulletTTLFrames           = 90
)

// Cosmetic sizes, not part of gameplay state
const (
	PlayerScale float32 = 1.0
	BulletScale float32 = 0.3
)

// RoundEndFrames is the cooldown between an elimination and the next round (1s)
const RoundEndFrames = TickRate
