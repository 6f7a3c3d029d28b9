package event

import (
	"sync"
	"testing"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < 5; i++ {
		q.Push(GameEvent{Type: EventBulletFired, Frame: core.Frame(i)})
	}
	if q.Len() != 5 {
		t.Fatalf("Expected 5 pending, got %d", q.Len())
	}
	got := q.Consume()
	for i, ev := range got {
		if ev.Frame != core.Frame(i) {
			t.Errorf("Expected frame %d at %d, got %d", i, i, ev.Frame)
		}
	}
	if q.Consume() != nil {
		t.Errorf("Expected empty queue after consume")
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewEventQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(GameEvent{Type: EventRoundEnded, Frame: core.Frame(i)})
	}
	got := q.Consume()
	if len(got) != parameter.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", parameter.EventQueueSize, len(got))
	}
	if got[0].Frame != 10 {
		t.Errorf("Expected oldest surviving frame 10, got %d", got[0].Frame)
	}
	if q.Dropped() == 0 {
		t.Errorf("Expected dropped counter to advance")
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	const producers = 4
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(GameEvent{Type: EventNetworkInterrupted})
			}
		}()
	}
	wg.Wait()

	if got := len(q.Consume()); got != producers*perProducer {
		t.Errorf("Expected %d events, got %d", producers*perProducer, got)
	}
}

func TestDesyncPayloadString(t *testing.T) {
	p := &DesyncPayload{Frame: 12, Local: 1, Remote: 2, Peer: 1}
	want := "desync at frame 12 with player 1: local 0000000000000001 remote 0000000000000002"
	if p.String() != want {
		t.Errorf("Expected %q, got %q", want, p.String())
	}
}
