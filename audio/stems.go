package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// StemCount is the number of layered music stems.
const StemCount = 4

// stepDuration is one sixteenth note at 120 BPM.
const stepDuration = 125 * time.Millisecond

// Note frequencies used by the stems.
const (
	a2 = 110.00
	c3 = 130.81
	e3 = 164.81
	g3 = 196.00
	a4 = 440.00
	c5 = 523.25
	e5 = 659.25
	g5 = 783.99
	a5 = 880.00
)

// stemPatterns holds one looping bar per stem. 0 is a rest; for the noise
// stem any non-zero value is a hit.
var stemPatterns = [StemCount]struct {
	wave  WaveType
	gain  float64
	decay float64 // per-second exponential decay within a step
	notes []float64
}{
	{WaveTriangle, 0.5, 4, []float64{a2, 0, a2, 0, a2, 0, c3, 0, a2, 0, a2, 0, g3, 0, e3, 0}},
	{WaveNoise, 0.25, 30, []float64{1, 0, 0, 0, 1, 0, 1, 0, 1, 0, 0, 0, 1, 0, 1, 1}},
	{WaveSquare, 0.15, 12, []float64{a4, c5, e5, a5, a4, c5, e5, a5, g3 * 2, c5, e5, g5, g3 * 2, c5, e5, g5}},
	{WaveSaw, 0.12, 2, []float64{a5, 0, 0, g5, 0, 0, e5, 0, 0, 0, g5, 0, a5, 0, 0, 0}},
}

// stem is an endless pattern voice. All stems share a step length so they stay
// aligned as long as they start together.
type stem struct {
	wave        WaveType
	gain        float64
	decay       float64
	notes       []float64
	stepSamples int
	rate        beep.SampleRate
	pos         int
	phase       float64
	rng         *rand.Rand
}

func newStem(idx int, rate beep.SampleRate) *stem {
	p := stemPatterns[idx]
	return &stem{
		wave:        p.wave,
		gain:        p.gain,
		decay:       p.decay,
		notes:       p.notes,
		stepSamples: max(rate.N(stepDuration), 1),
		rate:        rate,
		rng:         rand.New(rand.NewSource(int64(idx) + 1)),
	}
}

func (s *stem) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		step := (s.pos / s.stepSamples) % len(s.notes)
		inStep := s.pos % s.stepSamples
		if inStep == 0 {
			s.phase = 0
		}

		var val float64
		if note := s.notes[step]; note != 0 {
			t := float64(inStep) / float64(s.rate)
			val = s.gain * math.Exp(-s.decay*t) * waveSample(s.wave, s.phase, s.rng)
			s.phase += note / float64(s.rate)
			s.phase -= math.Floor(s.phase)
		}

		samples[i][0] = val
		samples[i][1] = val
		s.pos++
	}
	return len(samples), true
}

func (s *stem) Err() error { return nil }
