package session

import (
	"errors"
	"testing"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

var (
	fire   = input.Input{input.ButtonFire, 0, 0}
	thrust = input.Input{input.ButtonUp, 0, 0}
)

func TestPredictionRepeatsLastConfirmed(t *testing.T) {
	q := NewInputQueue(1)
	if err := q.Add(0, thrust); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, confirmed := q.Input(3)
	if confirmed {
		t.Error("Expected frame 3 to be predicted")
	}
	if got != thrust {
		t.Errorf("Expected prediction %v, got %v", thrust, got)
	}

	got, confirmed = q.Input(0)
	if !confirmed || got != thrust {
		t.Errorf("Expected confirmed %v, got %v (confirmed=%v)", thrust, got, confirmed)
	}
}

func TestMispredictionReportsEarliestFrame(t *testing.T) {
	q := NewInputQueue(0)
	for f := core.Frame(0); f < 5; f++ {
		q.Input(f)
	}

	// Frames 0-1 match the neutral prediction, 2 and 4 do not
	q.Add(0, input.Input{})
	q.Add(1, input.Input{})
	q.Add(2, fire)
	q.Add(3, fire)
	q.Add(4, thrust)

	f, ok := q.FirstIncorrect()
	if !ok || f != 2 {
		t.Errorf("Expected first incorrect frame 2, got %d (ok=%v)", f, ok)
	}
	if _, ok := q.FirstIncorrect(); ok {
		t.Error("Expected FirstIncorrect to reset after reading")
	}
}

func TestMispredictionAtDeepestWindow(t *testing.T) {
	q := NewInputQueue(1)
	q.Add(0, input.Input{})

	// Deepest outstanding prediction a runner can hold at the rollback limit
	deepest := core.Frame(parameter.MaxRollbackLimit + parameter.MaxInputDelay)
	for f := core.Frame(1); f <= deepest; f++ {
		q.Input(f)
	}

	if err := q.Add(1, fire); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	f, ok := q.FirstIncorrect()
	if !ok || f != 1 {
		t.Errorf("Expected misprediction at frame 1, got %d (ok=%v)", f, ok)
	}
}

func TestCorrectPredictionIsNotReported(t *testing.T) {
	q := NewInputQueue(0)
	q.Add(0, fire)
	q.Input(1)
	q.Input(2)
	q.Add(1, fire)
	q.Add(2, fire)

	if f, ok := q.FirstIncorrect(); ok {
		t.Errorf("Expected no misprediction, got frame %d", f)
	}
}

func TestAddValidation(t *testing.T) {
	q := NewInputQueue(0)
	q.Add(0, fire)

	tests := []struct {
		name  string
		frame core.Frame
		in    input.Input
		want  error
	}{
		{"gap", 2, fire, ErrInputGap},
		{"duplicate_same", 0, fire, nil},
		{"duplicate_different", 0, thrust, ErrStaleInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := q.Add(tt.frame, tt.in)
			if tt.want == nil && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestQueueFullAheadOfDiscard(t *testing.T) {
	q := NewInputQueue(0)
	var err error
	for f := core.Frame(0); f <= inputQueueLength; f++ {
		if err = q.Add(f, input.Input{}); err != nil {
			break
		}
	}
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Expected ErrQueueFull, got %v", err)
	}

	q.Discard(10)
	if err := q.Add(inputQueueLength, input.Input{}); err != nil {
		t.Errorf("Expected room after discard, got %v", err)
	}
	if _, ok := q.Confirmed(5); ok {
		t.Error("Expected discarded frame to be unavailable")
	}
}

func TestCloseConfirmsNeutral(t *testing.T) {
	q := NewInputQueue(1)
	q.Add(0, thrust)
	q.Input(1) // predicted thrust, now wrong
	q.Close()

	if f, ok := q.FirstIncorrect(); !ok || f != 1 {
		t.Errorf("Expected misprediction at 1, got %d (ok=%v)", f, ok)
	}
	got, confirmed := q.Input(50)
	if !confirmed || !got.IsNeutral() {
		t.Errorf("Expected confirmed neutral input, got %v (confirmed=%v)", got, confirmed)
	}
	if q.LastConfirmed() != maxFrame {
		t.Errorf("Expected closed queue confirmed for every frame, got %d", q.LastConfirmed())
	}
	if got, _ := q.Confirmed(0); got != thrust {
		t.Errorf("Expected frame 0 to keep %v, got %v", thrust, got)
	}
}
