package engine

// System is one pipeline stage
type System interface {
	Name() string

	// Priority orders stages; lower values run first
	Priority() int

	// Phases selects the round phases the stage runs in
	Phases() PhaseMask

	// Update advances the stage by one fixed frame
	Update()
}

// RoundStarter resets the arena when the round phase enters ActiveRound
type RoundStarter interface {
	StartRound()
}
