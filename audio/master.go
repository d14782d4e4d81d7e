package audio

import (
	"log/slog"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Master mixes one-shot cues over the music stems. It implements beep.Streamer
// so an output device can pull from it on its own goroutine.
type Master struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	mixer  *beep.Mixer
	stems  [StemCount]*effects.Volume
	threat int

	pending    Cue
	hasPending bool
	dropped    int
	played     int
}

// NewMaster creates a mixer at sampleRate with linear master volume in [0, 1].
// Stem 1 starts audible; the others wait for SetThreat.
func NewMaster(sampleRate int, volume float64) *Master {
	m := &Master{
		rate:   beep.SampleRate(sampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
		threat: 1,
	}
	for i := range StemCount {
		v := newVolume(newStem(i, m.rate), volume)
		v.Silent = volume <= 0 || i > 0
		m.stems[i] = v
		m.mixer.Add(v)
	}
	return m
}

// SampleRate returns the mixer's sample rate.
func (m *Master) SampleRate() beep.SampleRate {
	return m.rate
}

// Queue requests a cue for this tick. The first cue queued wins; later ones
// are dropped until Flush.
func (m *Master) Queue(c Cue) {
	if c == CueNone {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasPending {
		m.dropped++
		return
	}
	m.pending = c
	m.hasPending = true
}

// Flush starts the pending cue, if any, and clears the queue. Returns the cue
// that started.
func (m *Master) Flush() Cue {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasPending {
		return CueNone
	}
	c := m.pending
	m.pending = CueNone
	m.hasPending = false

	if s := c.Streamer(m.rate, m.volume); s != nil {
		m.mixer.Add(s)
		m.played++
	}
	return c
}

// SetThreat makes stem k audible when level >= k.
func (m *Master) SetThreat(level int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if level == m.threat {
		return
	}
	for i, s := range m.stems {
		s.Silent = m.volume <= 0 || level < i+1
	}
	slog.Debug("music threat changed", "from", m.threat, "to", level)
	m.threat = level
}

// AudibleStems returns how many stems are currently unmuted.
func (m *Master) AudibleStems() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range m.stems {
		if !s.Silent {
			n++
		}
	}
	return n
}

// Dropped returns the number of cues discarded because another was already queued.
func (m *Master) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Played returns the number of cues started.
func (m *Master) Played() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.played
}

// Active returns the number of streams in the mixer, stems included.
func (m *Master) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Len()
}

// Stream implements beep.Streamer.
func (m *Master) Stream(samples [][2]float64) (n int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Stream(samples)
}

// Err implements beep.Streamer.
func (m *Master) Err() error {
	return nil
}
