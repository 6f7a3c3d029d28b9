package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Cue identifies a sound effect
type Cue int

const (
	CueFire  Cue = iota // Bullet fired
	CueHit              // Player eliminated
	CueRound            // Round started
	cueCount
)

var cueNames = [cueCount]string{"fire", "hit", "round"}

func (c Cue) String() string {
	if c >= 0 && c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}

// CueForEvent maps a match event to its cue
func CueForEvent(t event.EventType) (Cue, bool) {
	switch t {
	case event.EventBulletFired:
		return CueFire, true
	case event.EventPlayerEliminated:
		return CueHit, true
	case event.EventRoundStarted:
		return CueRound, true
	}
	return 0, false
}

// Cues plays short tones for match events through the beep speaker
// Without a sound device every call is a no-op
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	lastPlayed  [cueCount]time.Time

	muted atomic.Bool
}

// NewCues creates an uninitialized cue player
func NewCues(muted bool) *Cues {
	c := &Cues{mixer: &beep.Mixer{}}
	c.muted.Store(muted)
	return c
}

// Initialize opens the speaker; failure leaves the player silent
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup stops all sounds
func (c *Cues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// ToggleMute flips the mute state and returns the new one
func (c *Cues) ToggleMute() bool {
	for {
		old := c.muted.Load()
		if c.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports the mute state
func (c *Cues) Muted() bool {
	return c.muted.Load()
}

// HandleEvent plays the cue bound to ev, if any
func (c *Cues) HandleEvent(ev event.GameEvent, now time.Time) {
	if cue, ok := CueForEvent(ev.Type); ok {
		c.Play(cue, now)
	}
}

// Play starts cue unless muted or the same cue played within MinSoundGap
func (c *Cues) Play(cue Cue, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.accept(cue, now) || !c.initialized {
		return
	}
	s := cueStreamer(cue)
	if s == nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// accept applies mute and throttling; caller holds mu
func (c *Cues) accept(cue Cue, now time.Time) bool {
	if cue < 0 || cue >= cueCount || c.muted.Load() {
		return false
	}
	if now.Sub(c.lastPlayed[cue]) < parameter.MinSoundGap {
		return false
	}
	c.lastPlayed[cue] = now
	return true
}

// cueStreamer builds a finite streamer for cue at the cue volume
func cueStreamer(cue Cue) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case CueFire:
		s = tone(parameter.FireToneHz, parameter.FireToneDuration)
	case CueRound:
		s = tone(parameter.RoundToneHz, parameter.RoundToneDuration)
	case CueHit:
		s = beep.Take(sampleRate.N(parameter.HitToneDuration), newHitGenerator(parameter.HitToneHz))
	}
	if s == nil {
		return nil
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: parameter.CueVolume}
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil
	}
	return beep.Take(sampleRate.N(d), sine)
}

// hitGenerator is a falling tone with harmonics and an exponential decay
type hitGenerator struct {
	freq float64
	pos  int
}

func newHitGenerator(freq float64) *hitGenerator {
	return &hitGenerator{freq: freq}
}

func (g *hitGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)
		f := g.freq * (1 - 0.5*math.Min(t/0.25, 1))

		sample := 0.5 * math.Sin(2*math.Pi*f*t)
		sample += 0.25 * math.Sin(2*math.Pi*f*2*t)
		sample *= math.Exp(-t * 10)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *hitGenerator) Err() error {
	return nil
}
