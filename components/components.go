// Package components defines ECS components for the game.
package components

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Entity is the ECS entity handle. Handles carry a generation, so a stale
// handle never matches a recycled one.
type Entity = ecs.Entity

// Marker tags.
type (
	Enemy                   struct{}
	Atom                    struct{}
	Neutron                 struct{}
	BulletsPickup           struct{}
	CollideWithPlayer       struct{} // Collider can hit the player
	CollideWithEnemy        struct{} // Collider can hit enemies
	RemoveOnPlayerCollision struct{}
	Indicated               struct{} // Has a collider indicator child
)

// Player holds the player's control state.
type Player struct {
	Speed        float64
	Facing       r3.Vec // Last non-zero movement direction
	FireCooldown float64
}

// Dash is the player's short burst of speed.
// While Remaining > 0 the player has no collider.
type Dash struct {
	Strength  float64
	Duration  float64
	Cooldown  float64
	Remaining float64
	Recharge  float64
	Direction r3.Vec
}

// Active reports whether a dash is in progress.
func (d Dash) Active() bool { return d.Remaining > 0 }

// Ready reports whether a new dash may start.
func (d Dash) Ready() bool { return d.Remaining <= 0 && d.Recharge <= 0 }

// Health tracks hit points. The zero value is depleted.
type Health struct {
	total   float64
	current float64
}

// NewHealth returns full health.
func NewHealth(total float64) Health {
	return Health{total: total, current: total}
}

func (h Health) Total() float64   { return h.total }
func (h Health) Current() float64 { return h.current }
func (h Health) Depleted() bool   { return h.current <= 0 }

// Damage subtracts amount, clamped at zero.
func (h *Health) Damage(amount float64) {
	h.current -= amount
	if h.current < 0 {
		h.current = 0
	}
}

// BulletCount is the player's ammunition.
type BulletCount struct {
	Count int
	Max   int
}

// Add increases the count, clamped to Max.
func (b *BulletCount) Add(n int) {
	b.Count += n
	if b.Count > b.Max {
		b.Count = b.Max
	}
}

// CollisionDamage is the damage dealt to the player on contact.
type CollisionDamage struct {
	Amount float64
}

// Progenitor points at the atom whose fission created an entity.
// The reference is non-owning and may be stale.
type Progenitor struct {
	Of  Entity
	Set bool
}

// Generation counts how many fissions precede an atom.
type Generation struct {
	Events uint32
}

// Material selects the visual variant of an entity.
type Material struct {
	Index int
}

// Lifespan is the time after which an entity expires.
type Lifespan struct {
	Seconds float64
}

// Uptime is the time an entity has been alive.
type Uptime struct {
	Seconds float64
}

// Emitter periodically releases neutrons in a fixed pattern.
type Emitter struct {
	Period  float64
	Elapsed float64
	Speed   float64
	Count   int
}

// Indicator draws a collider outline for its parent.
type Indicator struct {
	Shape Collider
}
