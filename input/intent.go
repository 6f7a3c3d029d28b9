package input

// IntentType discriminates host-level actions that never enter the simulation
type IntentType uint8

const (
	IntentNone IntentType = iota

	IntentQuit       // Ctrl+C, Esc, q
	IntentToggleMute // m
	IntentResize     // Terminal resize event
)
