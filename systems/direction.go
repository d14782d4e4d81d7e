package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// ConeSampler draws random unit vectors within a cone around a direction.
type ConeSampler struct {
	dir      r3.Vec
	v, w     r3.Vec
	maxAngle float64
	rng      *rand.Rand
}

// NewConeSampler prepares a sampler around dir. dir must be non-zero; maxAngle
// is the cone half-angle in radians.
func NewConeSampler(dir r3.Vec, maxAngle float64, rng *rand.Rand) *ConeSampler {
	d := r3.Unit(dir)

	helper := r3.Vec{X: 1}
	if math.Abs(d.X) >= 0.9 {
		helper = r3.Vec{Y: 1}
	}
	v := r3.Unit(r3.Cross(d, helper))
	w := r3.Cross(d, v)

	return &ConeSampler{dir: d, v: v, w: w, maxAngle: maxAngle, rng: rng}
}

// Next returns a unit vector at most maxAngle away from the cone axis.
func (s *ConeSampler) Next() r3.Vec {
	angle := s.rng.Float64() * s.maxAngle
	roll := s.rng.Float64() * 2 * math.Pi

	ring := r3.Add(r3.Scale(math.Cos(roll), s.v), r3.Scale(math.Sin(roll), s.w))
	out := r3.Add(r3.Scale(math.Cos(angle), s.dir), r3.Scale(math.Sin(angle), ring))
	return r3.Unit(out)
}

// NextPlanar returns Next projected onto the XY plane and renormalized.
// When the projection is degenerate the cone axis is used instead.
func (s *ConeSampler) NextPlanar() r3.Vec {
	out := s.Next()
	out.Z = 0
	if n := r3.Norm(out); n > 1e-9 {
		return r3.Scale(1/n, out)
	}
	axis := r3.Vec{X: s.dir.X, Y: s.dir.Y}
	if n := r3.Norm(axis); n > 1e-9 {
		return r3.Scale(1/n, axis)
	}
	return r3.Vec{X: 1}
}

// RandomPlanarDirection returns a uniformly random unit vector in the XY plane.
func RandomPlanarDirection(rng *rand.Rand) r3.Vec {
	a := rng.Float64() * 2 * math.Pi
	return r3.Vec{X: math.Cos(a), Y: math.Sin(a)}
}
