package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
)

func startRelay(t *testing.T) (*Relay, string) {
	t.Helper()
	relay := NewRelay(DefaultConfig())
	srv := httptest.NewServer(relay)
	t.Cleanup(func() {
		relay.Close()
		srv.Close()
	})
	return relay, "ws" + strings.TrimPrefix(srv.URL, "http") + "/flying_shooter"
}

func dialRoom(t *testing.T, url string) *Transport {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	tr, err := Dial(ctx, ClientConfig(url))
	if err != nil {
		t.Fatalf("failed to dial relay: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func waitRoster(t *testing.T, tr *Transport) RosterPayload {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r, err := tr.WaitRoster(ctx)
	if err != nil {
		t.Fatalf("roster not received: %v", err)
	}
	return r
}

func recv(t *testing.T, tr *Transport) *Message {
	t.Helper()
	select {
	case msg, ok := <-tr.Messages():
		if !ok {
			t.Fatal("link closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

func TestRelayAssignsHandlesInJoinOrder(t *testing.T) {
	_, url := startRelay(t)

	first := dialRoom(t, url+"?next=2")
	if _, ok := first.Roster(); ok {
		t.Fatal("Expected no roster before the room is full")
	}
	// Let the first join register before the second
	time.Sleep(50 * time.Millisecond)
	second := dialRoom(t, url+"?next=2")

	r1 := waitRoster(t, first)
	r2 := waitRoster(t, second)
	if r1.Handle != 0 || r2.Handle != 1 {
		t.Errorf("Expected handles 0 and 1, got %d and %d", r1.Handle, r2.Handle)
	}
	if r1.Players != 2 || r2.Players != 2 {
		t.Errorf("Expected 2 players, got %d and %d", r1.Players, r2.Players)
	}
}

func TestRelayForwardsToOtherMembers(t *testing.T) {
	_, url := startRelay(t)

	a := dialRoom(t, url)
	time.Sleep(50 * time.Millisecond)
	b := dialRoom(t, url)
	waitRoster(t, a)
	waitRoster(t, b)

	msg, err := Pack(MsgInput, &InputPayload{Handle: 0, Start: 5, Inputs: []input.Input{{input.ButtonFire}}})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if !a.Send(msg) {
		t.Fatal("Send failed")
	}

	got := recv(t, b)
	if got.Type != MsgInput {
		t.Fatalf("Expected %s, got %s", MsgInput, got.Type)
	}
	if got.Flags&FlagRelay == 0 {
		t.Error("Expected relay flag on forwarded message")
	}
	var p InputPayload
	if err := Unpack(got, &p); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if p.Start != 5 || len(p.Inputs) != 1 || !p.Inputs[0].Fire() {
		t.Errorf("Expected fire input at frame 5, got %+v", p)
	}

	select {
	case extra := <-a.Messages():
		t.Errorf("Expected sender not to receive its own message, got %s", extra.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRelayNotifiesDisconnect(t *testing.T) {
	_, url := startRelay(t)

	a := dialRoom(t, url)
	time.Sleep(50 * time.Millisecond)
	b := dialRoom(t, url)
	waitRoster(t, a)
	waitRoster(t, b)

	b.Close()

	got := recv(t, a)
	if got.Type != MsgDisconnect {
		t.Fatalf("Expected %s, got %s", MsgDisconnect, got.Type)
	}
	var p HandlePayload
	if err := Unpack(got, &p); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if p.Handle != core.PlayerHandle(1) {
		t.Errorf("Expected handle 1, got %d", p.Handle)
	}
}

func TestRelaySeparatesRoomSizes(t *testing.T) {
	relay, url := startRelay(t)

	dialRoom(t, url+"?next=2")
	dialRoom(t, url+"?next=3")
	time.Sleep(100 * time.Millisecond)

	if got := relay.RoomCount(); got != 2 {
		t.Errorf("Expected 2 rooms, got %d", got)
	}
}

func TestRelayRejectsInvalidSize(t *testing.T) {
	relay := NewRelay(DefaultConfig())
	srv := httptest.NewServer(relay)
	defer srv.Close()

	for _, next := range []string{"1", "9", "x"} {
		resp, err := http.Get(srv.URL + "/flying_shooter?next=" + next)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("next=%s: expected 400, got %d", next, resp.StatusCode)
		}
	}
}
