package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/clinuxrulz/flying-shooter/audio"
	"github.com/clinuxrulz/flying-shooter/config"
	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/network"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/render"
	"github.com/clinuxrulz/flying-shooter/rollback"
	"github.com/clinuxrulz/flying-shooter/session"
	"github.com/clinuxrulz/flying-shooter/status"
)

// game owns the host side: terminal, lifecycle, session and runner
// Only the runner goroutine touches the scheduler's world; the loop here reads published views
type game struct {
	cfg      *config.Config
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	status   render.StatusLine
	cues     *audio.Cues
	tracker  *input.Tracker

	events    *event.EventQueue
	metrics   *status.Registry
	lifecycle *session.Lifecycle

	sess      atomic.Pointer[sessionRef]
	sched     atomic.Pointer[rollback.Scheduler]
	runner    atomic.Pointer[session.Runner]
	transport atomic.Pointer[network.Transport]

	ctx    context.Context
	cancel context.CancelFunc
	errCh  chan error
}

// sessionRef boxes the interface for atomic publication
type sessionRef struct {
	session.Session
}

func newGame(cfg *config.Config, screen tcell.Screen, cues *audio.Cues) (*game, error) {
	ctx, cancel := context.WithCancel(context.Background())
	g := &game{
		cfg:      cfg,
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen),
		cues:     cues,
		tracker:  input.NewTracker(input.DefaultKeyTable()),
		events:   event.NewEventQueue(),
		metrics:  status.NewRegistry(),
		ctx:      ctx,
		cancel:   cancel,
		errCh:    make(chan error, 2),
	}

	lc, err := session.NewLifecycle(session.LifecycleHooks{
		StartSession: g.startSession,
		SessionReady: func() bool { return g.sess.Load() != nil },
		StartMatch:   g.startMatch,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	g.lifecycle = lc
	return g, nil
}

// startSession creates the synctest session at once, or joins the room in the background
func (g *game) startSession() error {
	if g.cfg.SyncTest {
		s, err := session.NewSyncTestSession(g.cfg.NumPlayers, g.cfg.InputDelay, g.cfg.CheckDistance, g.events, g.metrics)
		if err != nil {
			return err
		}
		g.sess.Store(&sessionRef{s})
		return nil
	}

	target, err := roomURL(g.cfg.RoomURL, g.cfg.NumPlayers)
	if err != nil {
		return err
	}
	core.Go(func() {
		if err := g.join(target); err != nil {
			g.fail(err)
		}
	})
	return nil
}

// join dials the relay and waits for the room to fill
func (g *game) join(target string) error {
	ctx, cancel := context.WithTimeout(g.ctx, g.cfg.ConnectTimeout)
	defer cancel()

	t, err := network.Dial(ctx, network.ClientConfig(target))
	if err != nil {
		return err
	}
	g.transport.Store(t)
	g.events.Push(event.GameEvent{Type: event.EventSynchronizing, Payload: &event.PeerPayload{Addr: target}, Frame: core.NullFrame})

	roster, err := t.WaitRoster(ctx)
	if err != nil {
		t.Close()
		return fmt.Errorf("waiting for players: %w", err)
	}
	s, err := session.NewP2PSession(t, roster, g.cfg.InputDelay, g.events, g.metrics)
	if err != nil {
		t.Close()
		return err
	}
	g.sess.Store(&sessionRef{s})
	return nil
}

// startMatch builds the world and starts the runner
func (g *game) startMatch() error {
	ref := g.sess.Load()
	if ref == nil {
		return fmt.Errorf("match started without a session")
	}

	sched, err := session.NewGameScheduler(g.cfg.Rollback(), ref.NumPlayers(), g.lifecycle.Outer(), g.events, g.metrics)
	if err != nil {
		return err
	}
	g.sched.Store(sched)

	runner := session.NewRunner(sched, ref.Session, g.sample)
	if g.cfg.Debug {
		runner.EnableDumps(logDir)
	}
	g.runner.Store(runner)
	core.Go(func() {
		if err := runner.Run(g.ctx); err != nil {
			g.fail(err)
		}
	})
	return nil
}

// sample is the runner's device: held keys encoded once per frame
func (g *game) sample(now time.Time) input.Input {
	return input.Encode(g.tracker.State(now))
}

func (g *game) fail(err error) {
	select {
	case g.errCh <- err:
	default:
	}
}

// run is the host loop; returns nil on quit
func (g *game) run() error {
	defer g.shutdown()

	if err := g.lifecycle.Start(); err != nil {
		return err
	}

	eventChan := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleTerminalEvent(ev) {
				return nil
			}

		case err := <-g.errCh:
			return err

		case now := <-frameTicker.C:
			if err := g.lifecycle.Update(now.Sub(last)); err != nil {
				return err
			}
			last = now

			for _, ev := range g.events.Consume() {
				if err := g.lifecycle.HandleEvent(ev); err != nil {
					return err
				}
				g.status.HandleEvent(ev, now)
				g.cues.HandleEvent(ev, now)
				g.dumpDesync(ev)
			}
			g.draw(now)
		}
	}
}

// dumpDesync asks the runner for a state dump of a reported mismatch
func (g *game) dumpDesync(ev event.GameEvent) {
	d, ok := ev.Payload.(*event.DesyncPayload)
	if ev.Type != event.EventDesyncDetected || !ok {
		return
	}
	if r := g.runner.Load(); r != nil {
		r.RequestDump(d.Frame, d.Peer)
	}
}

// handleTerminalEvent feeds keys to the tracker; returns false on quit
func (g *game) handleTerminalEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch g.tracker.HandleKey(ev, ev.When()) {
		case input.IntentQuit:
			return false
		case input.IntentToggleMute:
			g.cues.ToggleMute()
		}
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
	}
	return true
}

func (g *game) draw(now time.Time) {
	hud := render.HUD{
		Phase: g.lifecycle.Phase(),
		Muted: g.cues.Muted(),
	}
	hud.Status, hud.Severity = g.status.Current(now)
	if ref := g.sess.Load(); ref != nil && !g.cfg.SyncTest {
		hud.Local = ref.LocalHandles()
	}

	var view *rollback.View
	if sched := g.sched.Load(); sched != nil {
		view = sched.View()
	}
	g.renderer.RenderFrame(view, hud)
}

func (g *game) shutdown() {
	g.cancel()
	if t := g.transport.Load(); t != nil {
		t.Close()
	}
	if sched := g.sched.Load(); sched != nil {
		log.Printf("game: stopped at frame %d (confirmed %d), %s",
			sched.CurrentFrame(), sched.ConfirmedFrame(), g.metrics.Summary())
	}
}

// roomURL sets the room size query of raw to players
func roomURL(raw string, players int) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("room url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("room url: unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	q.Set("next", strconv.Itoa(players))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
