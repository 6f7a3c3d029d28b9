package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/clinuxrulz/flying-shooter/audio"
	"github.com/clinuxrulz/flying-shooter/config"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

func TestRoomURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		players int
		want    string
		wantErr bool
	}{
		{"default_room", parameter.DefaultRoomURL, 2, "ws://127.0.0.1:3536/flying_shooter?next=2", false},
		{"resized", "ws://relay.test/flying_shooter?next=2", 4, "ws://relay.test/flying_shooter?next=4", false},
		{"no_query", "wss://relay.test/room", 3, "wss://relay.test/room?next=3", false},
		{"http_scheme", "http://relay.test/room", 2, "", true},
		{"garbage", "::", 2, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := roomURL(tt.raw, tt.players)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func newTestGame(t *testing.T, cfg *config.Config) *game {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)

	g, err := newGame(cfg, screen, audio.NewCues(true))
	if err != nil {
		t.Fatalf("newGame failed: %v", err)
	}
	t.Cleanup(g.shutdown)
	return g
}

func TestSyncTestGameReachesInGame(t *testing.T) {
	cfg := config.Default()
	cfg.SyncTest = true

	g := newTestGame(t, cfg)
	if err := g.lifecycle.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	now := time.Now()
	for i := 0; i < 3 && g.lifecycle.Phase() != engine.OuterInGame; i++ {
		if err := g.lifecycle.Update(parameter.FrameUpdateInterval); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		for _, ev := range g.events.Consume() {
			g.lifecycle.HandleEvent(ev)
			g.status.HandleEvent(ev, now)
		}
	}

	if g.lifecycle.Phase() != engine.OuterInGame {
		t.Fatalf("Expected InGame, got %s", g.lifecycle.Phase())
	}
	if g.sched.Load() == nil {
		t.Fatal("Expected scheduler to be built on match start")
	}
	if ref := g.sess.Load(); ref == nil || ref.NumPlayers() != cfg.NumPlayers {
		t.Errorf("Expected a %d player session", cfg.NumPlayers)
	}

	g.draw(now)
}

func TestQuitKeyStopsLoop(t *testing.T) {
	cfg := config.Default()
	cfg.SyncTest = true
	g := newTestGame(t, cfg)

	mute := tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone)
	if !g.handleTerminalEvent(mute) {
		t.Error("Expected mute key to keep running")
	}
	if g.cues.Muted() {
		t.Error("Expected mute toggled off")
	}

	quit := tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	if g.handleTerminalEvent(quit) {
		t.Error("Expected escape to quit")
	}
}
