package parameter

// Pipeline stage priorities (lower runs first)
// Ordering is a hard dependency: movement -> reload -> fire -> bullet -> elimination
const (
	PriorityMovement    = 10
	PriorityReload      = 20
	PriorityFire        = 30 // After movement and reload
	PriorityBullet      = 40 // After fire
	PriorityElimination = 50 // After bullet and movement
	PriorityRoundEnd    = 60 // RoundEnd only
)
