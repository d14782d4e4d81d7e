package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
)

// MovementSystem applies velocities and spins.
type MovementSystem struct {
	moving   ecs.Filter2[components.Transform, components.Velocity]
	spinning ecs.Filter2[components.Transform, components.RadialVelocity]
}

// NewMovementSystem creates a movement system.
func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{
		moving:   *ecs.NewFilter2[components.Transform, components.Velocity](w),
		spinning: *ecs.NewFilter2[components.Transform, components.RadialVelocity](w),
	}
}

// Update moves every entity by its velocity once per tick and spins radial
// movers by Strength*dt.
func (s *MovementSystem) Update(dt float64) {
	query := s.moving.Query()
	for query.Next() {
		t, v := query.Get()
		t.Translation = r3.Add(t.Translation, v.Value)
	}

	spin := s.spinning.Query()
	for spin.Next() {
		t, rv := spin.Get()
		step := rv.Strength * dt
		rv.Total += step
		t.RotateZ(step)
	}
}
