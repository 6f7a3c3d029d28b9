package parameter

import "time"

// Layout
const (
	// TopMargin holds the score line
	TopMargin = 1

	// BottomMargin holds the status line
	BottomMargin = 1
)

// Glyphs
const (
	BulletChar = '•'
	WallChar   = '·'
)

// PlayerGlyphs index ship glyphs by facing octant, counter-clockwise from +X
var PlayerGlyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// StatusMessageTimeout is how long a session event stays on the status line
const StatusMessageTimeout = 3 * time.Second
