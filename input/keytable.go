package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// KeyHoldWindow is how long a key counts as held after its last press
// Terminals report presses and autorepeat only, never releases
const KeyHoldWindow = 120 * time.Millisecond

// KeyTable maps terminal keys to device buttons and host intents
type KeyTable struct {
	SpecialKeys map[tcell.Key]uint8
	Runes       map[rune]uint8

	IntentKeys  map[tcell.Key]IntentType
	IntentRunes map[rune]IntentType
}

// DefaultKeyTable returns arrows/WASD for movement and space/enter for fire
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]uint8{
			tcell.KeyUp:    ButtonUp,
			tcell.KeyDown:  ButtonDown,
			tcell.KeyLeft:  ButtonLeft,
			tcell.KeyRight: ButtonRight,
			tcell.KeyEnter: ButtonFire,
		},
		Runes: map[rune]uint8{
			'w': ButtonUp,
			's': ButtonDown,
			'a': ButtonLeft,
			'd': ButtonRight,
			' ': ButtonFire,
		},
		IntentKeys: map[tcell.Key]IntentType{
			tcell.KeyCtrlC:  IntentQuit,
			tcell.KeyEscape: IntentQuit,
		},
		IntentRunes: map[rune]IntentType{
			'q': IntentQuit,
			'm': IntentToggleMute,
		},
	}
}

// Tracker turns a stream of key presses into held-button device state
// Host-side only; wall-clock reads here never reach the simulation
// Safe for one key reader and one sampler in different goroutines
type Tracker struct {
	mu       sync.Mutex
	table    *KeyTable
	lastSeen map[uint8]time.Time
}

// NewTracker creates a tracker over table
func NewTracker(table *KeyTable) *Tracker {
	return &Tracker{
		table:    table,
		lastSeen: make(map[uint8]time.Time),
	}
}

// HandleKey records a key press and returns any host intent bound to it
func (t *Tracker) HandleKey(ev *tcell.EventKey, now time.Time) IntentType {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if intent, ok := t.table.IntentRunes[r]; ok {
			return intent
		}
		if b, ok := t.table.Runes[r]; ok {
			t.lastSeen[b] = now
		}
		return IntentNone
	}

	if intent, ok := t.table.IntentKeys[ev.Key()]; ok {
		return intent
	}
	if b, ok := t.table.SpecialKeys[ev.Key()]; ok {
		t.lastSeen[b] = now
	}
	return IntentNone
}

// State returns the device state as of now
func (t *Tracker) State(now time.Time) DeviceState {
	t.mu.Lock()
	defer t.mu.Unlock()

	held := func(b uint8) bool {
		seen, ok := t.lastSeen[b]
		return ok && now.Sub(seen) <= KeyHoldWindow
	}
	return DeviceState{
		Up:    held(ButtonUp),
		Down:  held(ButtonDown),
		Left:  held(ButtonLeft),
		Right: held(ButtonRight),
		Fire:  held(ButtonFire),
	}
}
