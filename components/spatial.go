package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform places an entity in the world.
// A zero Rotation is treated the same as the identity quaternion.
type Transform struct {
	Translation r3.Vec
	Rotation    quat.Number
	Scale       r2.Vec
}

// NewTransform returns an unrotated transform with a uniform scale.
func NewTransform(pos r3.Vec, scale float64) Transform {
	return Transform{
		Translation: pos,
		Rotation:    quat.Number{Real: 1},
		Scale:       r2.Vec{X: scale, Y: scale},
	}
}

// Rotated reports whether the transform carries any rotation.
func (t Transform) Rotated() bool {
	return t.Rotation.Imag != 0 || t.Rotation.Jmag != 0 || t.Rotation.Kmag != 0
}

// RotateZ applies an additional rotation of angle radians around the Z axis.
func (t *Transform) RotateZ(angle float64) {
	q := t.Rotation
	if q == (quat.Number{}) {
		q = quat.Number{Real: 1}
	}
	t.Rotation = quat.Mul(quat.Number(r3.NewRotation(angle, r3.Vec{Z: 1})), q)
}

// Velocity is a per-tick displacement.
type Velocity struct {
	Value r3.Vec
}

// RadialVelocity spins an entity around Z at Strength radians per second.
type RadialVelocity struct {
	Strength float64
	Total    float64 // Accumulated angle
}

// Parent ties a child entity's transform to another entity.
type Parent struct {
	Of     Entity
	Offset r3.Vec
}
