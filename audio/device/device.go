// Package device plays a beep stream on the system speaker.
package device

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Device is an open speaker playing a single source.
type Device struct {
	open bool
}

// Open initializes the speaker at rate with a 100ms buffer and starts playing src.
func Open(rate beep.SampleRate, src beep.Streamer) (*Device, error) {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(src)
	return &Device{open: true}, nil
}

// Close stops playback and releases the speaker. Safe on nil.
func (d *Device) Close() {
	if d == nil || !d.open {
		return
	}
	speaker.Clear()
	speaker.Close()
	d.open = false
}
