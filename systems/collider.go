package systems

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
)

// AbsoluteCollider is a collider resolved into world space. It is never stored.
type AbsoluteCollider struct {
	Kind   components.ShapeKind
	Circle components.CircleCollider
	Rect   components.RectCollider
}

// Center returns the world-space center of the shape.
func (a AbsoluteCollider) Center() r3.Vec {
	if a.Kind == components.ShapeRect {
		return r3.Add(a.Rect.TL, r3.Scale(0.5, a.Rect.Size))
	}
	return a.Circle.Position
}

// Absolute resolves a local collider against a transform.
//
// Circles are rotated, scaled per axis and translated; the radius scales by the
// mean of the X and Y scale. Rectangles are translated and scaled only, and
// resolving one under a rotated transform panics.
func Absolute(c components.Collider, t components.Transform) AbsoluteCollider {
	switch c.Kind {
	case components.ShapeRect:
		if t.Rotated() {
			panic("systems: rect colliders cannot rotate")
		}
		return AbsoluteCollider{
			Kind: components.ShapeRect,
			Rect: components.RectCollider{
				TL: r3.Add(c.Rect.TL, t.Translation),
				Size: r3.Vec{
					X: c.Rect.Size.X * t.Scale.X,
					Y: c.Rect.Size.Y * t.Scale.Y,
					Z: c.Rect.Size.Z,
				},
			},
		}
	default:
		p := rotate(t.Rotation, c.Circle.Position)
		p.X *= t.Scale.X
		p.Y *= t.Scale.Y
		return AbsoluteCollider{
			Kind: components.ShapeCircle,
			Circle: components.CircleCollider{
				Position: r3.Add(t.Translation, p),
				Radius:   c.Circle.Radius * (t.Scale.X + t.Scale.Y) / 2,
			},
		}
	}
}

// rotate applies q to p. The zero quaternion leaves p unchanged.
func rotate(q quat.Number, p r3.Vec) r3.Vec {
	if q == (quat.Number{}) || (q.Imag == 0 && q.Jmag == 0 && q.Kmag == 0) {
		return p
	}
	return r3.Rotation(q).Rotate(p)
}

// Collides reports whether two world-space shapes overlap. Touching counts.
// Only the XY plane is considered.
func Collides(a, b AbsoluteCollider) bool {
	switch {
	case a.Kind == components.ShapeCircle && b.Kind == components.ShapeCircle:
		return circleCircle(a.Circle, b.Circle)
	case a.Kind == components.ShapeRect && b.Kind == components.ShapeRect:
		return rectRect(a.Rect, b.Rect)
	case a.Kind == components.ShapeCircle:
		return circleRect(a.Circle, b.Rect)
	default:
		return circleRect(b.Circle, a.Rect)
	}
}

// circleCircle compares squared distance to r1² + r2², not (r1+r2)².
func circleCircle(a, b components.CircleCollider) bool {
	dx := a.Position.X - b.Position.X
	dy := a.Position.Y - b.Position.Y
	return dx*dx+dy*dy <= a.Radius*a.Radius+b.Radius*b.Radius
}

func rectRect(a, b components.RectCollider) bool {
	aBRX, aBRY := a.TL.X+a.Size.X, a.TL.Y+a.Size.Y
	bBRX, bBRY := b.TL.X+b.Size.X, b.TL.Y+b.Size.Y
	return a.TL.X <= bBRX && aBRX >= b.TL.X &&
		a.TL.Y <= bBRY && aBRY >= b.TL.Y
}

func circleRect(c components.CircleCollider, r components.RectCollider) bool {
	hx, hy := r.Size.X/2, r.Size.Y/2
	dx := math.Abs(c.Position.X - (r.TL.X + hx))
	dy := math.Abs(c.Position.Y - (r.TL.Y + hy))

	if dx > hx+c.Radius || dy > hy+c.Radius {
		return false
	}
	if dx <= hx || dy <= hy {
		return true
	}

	cx, cy := dx-hx, dy-hy
	return cx*cx+cy*cy <= c.Radius*c.Radius
}
