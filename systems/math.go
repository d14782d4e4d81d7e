package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// RandRange returns a uniform value in [lo, hi).
func RandRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Viewport is the visible world rectangle centered on the camera.
type Viewport struct {
	Center        r3.Vec
	Width, Height float64
}

// Contains reports whether p lies inside the viewport.
func (v Viewport) Contains(p r3.Vec) bool {
	return math.Abs(p.X-v.Center.X) <= v.Width/2 && math.Abs(p.Y-v.Center.Y) <= v.Height/2
}

// RandomOutsideScreen picks a point beyond a random viewport edge, between
// margin and twice margin away from it.
func RandomOutsideScreen(rng *rand.Rand, v Viewport, margin float64) r3.Vec {
	hw, hh := v.Width/2, v.Height/2
	d := RandRange(rng, margin, 2*margin)
	var p r3.Vec
	switch rng.Intn(4) {
	case 0: // left
		p = r3.Vec{X: -hw - d, Y: RandRange(rng, -hh, hh)}
	case 1: // right
		p = r3.Vec{X: hw + d, Y: RandRange(rng, -hh, hh)}
	case 2: // top
		p = r3.Vec{X: RandRange(rng, -hw, hw), Y: -hh - d}
	default: // bottom
		p = r3.Vec{X: RandRange(rng, -hw, hw), Y: hh + d}
	}
	return r3.Add(v.Center, p)
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// planar drops the Z component.
func planar(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y}
}
