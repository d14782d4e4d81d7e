package game

import (
	"github.com/pthm-cable/meltdown/audio"
	"github.com/pthm-cable/meltdown/systems"
)

// cues maps simulation sounds to synthesized cues.
var cues = map[systems.Sound]audio.Cue{
	systems.SoundFission: audio.CueFission,
	systems.SoundShoot:   audio.CueShoot,
	systems.SoundHit:     audio.CueHit,
	systems.SoundPickup:  audio.CuePickup,
	systems.SoundDash:    audio.CueDash,
}

// dispatchFeedback forwards this tick's shakes to the camera, bursts to the
// particle pool and sounds to the mixer. The mixer starts at most one cue per tick.
func (g *Game) dispatchFeedback() {
	g.particles.Update()
	for _, fb := range g.sess.Feedback.Events() {
		if fb.Shake != nil {
			g.camera.PushShake(float32(fb.Shake.Intensity), float32(fb.Shake.Duration))
		}
		if fb.Burst != nil {
			g.particles.Burst(float32(fb.Burst.Position.X), float32(fb.Burst.Position.Y), fb.Burst.Kind)
		}
		if g.audio != nil && fb.Sound != systems.SoundNone {
			g.audio.Queue(cues[fb.Sound])
		}
	}

	if g.audio != nil {
		g.audio.SetThreat(g.sess.Threat)
		g.audio.Flush()
	}
}
