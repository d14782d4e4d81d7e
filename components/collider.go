package components

import "gonum.org/v1/gonum/spatial/r3"

// ShapeKind selects the active variant of a Collider.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	default:
		return "unknown"
	}
}

// CircleCollider is a circle centered at Position in the entity's local frame.
type CircleCollider struct {
	Position r3.Vec
	Radius   float64
}

// RectCollider is an axis-aligned rectangle with its top-left corner at TL.
type RectCollider struct {
	TL   r3.Vec
	Size r3.Vec
}

// Collider is a local-space collision shape. Only the field named by Kind is meaningful.
type Collider struct {
	Kind   ShapeKind
	Circle CircleCollider
	Rect   RectCollider
}

// NewCircle returns a circle collider.
func NewCircle(pos r3.Vec, radius float64) Collider {
	return Collider{Kind: ShapeCircle, Circle: CircleCollider{Position: pos, Radius: radius}}
}

// NewRect returns a rectangle collider.
func NewRect(tl, size r3.Vec) Collider {
	return Collider{Kind: ShapeRect, Rect: RectCollider{TL: tl, Size: size}}
}
