package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// MinSoundGap between consecutive cues of the same kind
	MinSoundGap = 50 * time.Millisecond
)

// Cue tones
const (
	FireToneHz        = 880
	FireToneDuration  = 40 * time.Millisecond
	HitToneHz         = 220
	HitToneDuration   = 250 * time.Millisecond
	RoundToneHz       = 660
	RoundToneDuration = 120 * time.Millisecond

	// CueVolume is the beep effects.Volume exponent applied to every cue (base 2)
	CueVolume = -2.5
)
