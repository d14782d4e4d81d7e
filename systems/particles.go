package systems

import (
	"math"
	"math/rand"
)

// ParticleType identifies the type of effect particle.
type ParticleType uint8

const (
	ParticleFission ParticleType = iota
	ParticleTerminal
)

// EffectParticle is a purely visual spark in world coordinates.
type EffectParticle struct {
	X, Y       float32
	VelX, VelY float32
	Life       int32
	MaxLife    int32
	Type       ParticleType
	Size       float32
}

// ParticleSystem manages fission sparks. It never touches the ECS world.
type ParticleSystem struct {
	Particles    []EffectParticle
	maxParticles int
	rng          *rand.Rand
}

// NewParticleSystem creates a particle pool holding at most maxParticles.
func NewParticleSystem(maxParticles int, rng *rand.Rand) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = 500
	}
	return &ParticleSystem{
		Particles:    make([]EffectParticle, 0, maxParticles),
		maxParticles: maxParticles,
		rng:          rng,
	}
}

// Update ages and moves all particles by one tick.
func (s *ParticleSystem) Update() {
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Life--
		if p.Life <= 0 {
			continue
		}

		switch p.Type {
		case ParticleFission:
			p.VelX *= 0.92
			p.VelY *= 0.92
		case ParticleTerminal:
			p.VelX *= 0.97
			p.VelY *= 0.97
		}

		p.X += p.VelX
		p.Y += p.VelY

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// Burst emits a radial spray at (x, y). Terminal bursts are larger and faster.
func (s *ParticleSystem) Burst(x, y float32, kind ParticleType) {
	count := 10 + s.rng.Intn(7)
	if kind == ParticleTerminal {
		count = 20 + s.rng.Intn(9)
	}
	for range count {
		s.emit(x, y, kind)
	}
}

func (s *ParticleSystem) emit(x, y float32, kind ParticleType) {
	if len(s.Particles) >= s.maxParticles {
		return
	}

	angle := s.rng.Float64() * 2 * math.Pi
	speed := 2 + s.rng.Float32()*4
	life := int32(20 + s.rng.Intn(20))
	size := 2 + s.rng.Float32()*2
	if kind == ParticleTerminal {
		speed *= 1.5
		life += 15
		size += 1
	}

	s.Particles = append(s.Particles, EffectParticle{
		X:       x + (s.rng.Float32()-0.5)*6,
		Y:       y + (s.rng.Float32()-0.5)*6,
		VelX:    float32(math.Cos(angle)) * speed,
		VelY:    float32(math.Sin(angle)) * speed,
		Life:    life,
		MaxLife: life,
		Type:    kind,
		Size:    size,
	})
}

// Count returns the current number of active particles.
func (s *ParticleSystem) Count() int {
	return len(s.Particles)
}

// Clear drops all particles.
func (s *ParticleSystem) Clear() {
	s.Particles = s.Particles[:0]
}
