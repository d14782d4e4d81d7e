package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue identifies a one-shot sound effect.
type Cue int

const (
	CueNone Cue = iota
	CueFission
	CueShoot
	CueHit
	CuePickup
	CueDash
)

func (c Cue) String() string {
	switch c {
	case CueFission:
		return "fission"
	case CueShoot:
		return "shoot"
	case CueHit:
		return "hit"
	case CuePickup:
		return "pickup"
	case CueDash:
		return "dash"
	}
	return "none"
}

// Streamer synthesizes the cue at the given rate and linear volume.
// Returns nil for CueNone.
func (c Cue) Streamer(rate beep.SampleRate, vol float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueFission:
		// Noise burst layered over a falling square thump
		d := 250 * time.Millisecond
		noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, 200*time.Millisecond, rate)
		thump := NewEnvelope(NewSweep(220, 55, d, WaveSquare, rate), d, 2*time.Millisecond, 180*time.Millisecond, rate)
		s = beep.Mix(newVolume(noise, 0.5), newVolume(thump, 0.5))
	case CueShoot:
		d := 90 * time.Millisecond
		s = NewEnvelope(NewSweep(1200, 400, d, WaveSquare, rate), d, time.Millisecond, 60*time.Millisecond, rate)
	case CueHit:
		d := 150 * time.Millisecond
		s = NewEnvelope(NewOscillator(110, d, WaveSaw, rate), d, 2*time.Millisecond, 100*time.Millisecond, rate)
	case CuePickup:
		// Two rising notes (B5, E6)
		d1, d2 := 60*time.Millisecond, 120*time.Millisecond
		n1 := NewEnvelope(NewOscillator(987.77, d1, WaveSquare, rate), d1, time.Millisecond, 20*time.Millisecond, rate)
		n2 := NewEnvelope(NewOscillator(1318.51, d2, WaveSquare, rate), d2, time.Millisecond, 80*time.Millisecond, rate)
		s = beep.Seq(n1, n2)
	case CueDash:
		d := 120 * time.Millisecond
		s = NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 20*time.Millisecond, 90*time.Millisecond, rate)
	default:
		return nil
	}
	return newVolume(s, vol)
}
