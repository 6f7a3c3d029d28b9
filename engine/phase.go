package engine

// OuterPhase is the application lifecycle phase, host owned and never rolled back
type OuterPhase uint8

const (
	OuterLoading OuterPhase = iota
	OuterMatchmaking
	OuterInGame
)

func (p OuterPhase) String() string {
	switch p {
	case OuterLoading:
		return "Loading"
	case OuterMatchmaking:
		return "Matchmaking"
	case OuterInGame:
		return "InGame"
	default:
		return "Unknown"
	}
}

// ParseOuterPhase maps a lifecycle state name to its phase
func ParseOuterPhase(name string) (OuterPhase, bool) {
	switch name {
	case "Loading":
		return OuterLoading, true
	case "Matchmaking":
		return OuterMatchmaking, true
	case "InGame":
		return OuterInGame, true
	}
	return OuterLoading, false
}

// OuterPhaseSource reports the current lifecycle phase
type OuterPhaseSource interface {
	OuterPhase() OuterPhase
}

// FixedOuter is an OuterPhaseSource pinned to one phase
type FixedOuter OuterPhase

func (f FixedOuter) OuterPhase() OuterPhase {
	return OuterPhase(f)
}

// RoundPhase is the in-game round phase; part of rollback state
type RoundPhase uint8

const (
	RoundActive RoundPhase = iota
	RoundEnd
)

func (p RoundPhase) String() string {
	switch p {
	case RoundActive:
		return "ActiveRound"
	case RoundEnd:
		return "RoundEnd"
	default:
		return "Unknown"
	}
}

// PhaseMask selects the round phases a system runs in
type PhaseMask uint8

const (
	MaskActive PhaseMask = 1 << RoundActive
	MaskEnd    PhaseMask = 1 << RoundEnd
	MaskAll              = MaskActive | MaskEnd
)

// Has reports whether p is enabled in the mask
func (m PhaseMask) Has(p RoundPhase) bool {
	return m&(1<<p) != 0
}
