package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meltdown/camera"
	"github.com/pthm-cable/meltdown/systems"
)

// ParticleRenderer renders fission sparks.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders all particles through cam.
func (r *ParticleRenderer) Draw(cam *camera.Camera, particles []systems.EffectParticle) {
	for i := range particles {
		p := &particles[i]
		if !cam.IsVisible(p.X, p.Y, p.Size) {
			continue
		}

		lifeRatio := float32(p.Life) / float32(p.MaxLife)

		var color rl.Color
		switch p.Type {
		case systems.ParticleFission:
			// Orange
			color = rl.Color{R: 255, G: 150, B: 50, A: uint8(lifeRatio * 220)}
		case systems.ParticleTerminal:
			// Blue-white
			color = rl.Color{R: 200, G: 230, B: 255, A: uint8(lifeRatio * 255)}
		}

		size := max(p.Size*lifeRatio, 0.5) * cam.Zoom
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}
