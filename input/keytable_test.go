package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestTrackerHoldWindow(t *testing.T) {
	tr := NewTracker(DefaultKeyTable())
	t0 := time.Unix(1000, 0)

	tr.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), t0)
	tr.HandleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), t0)

	st := tr.State(t0.Add(KeyHoldWindow / 2))
	if !st.Up || !st.Fire {
		t.Errorf("Expected up and fire held, got %+v", st)
	}

	st = tr.State(t0.Add(2 * KeyHoldWindow))
	if st.Up || st.Fire {
		t.Errorf("Expected keys released after hold window, got %+v", st)
	}
}

func TestTrackerIntents(t *testing.T) {
	tr := NewTracker(DefaultKeyTable())
	now := time.Unix(0, 0)

	if got := tr.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), now); got != IntentQuit {
		t.Errorf("Expected IntentQuit, got %d", got)
	}
	if got := tr.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), now); got != IntentToggleMute {
		t.Errorf("Expected IntentToggleMute, got %d", got)
	}
	if got := tr.HandleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), now); got != IntentNone {
		t.Errorf("Expected IntentNone for movement key, got %d", got)
	}
}
