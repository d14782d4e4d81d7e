package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// EventQueue is a per-tick FIFO of events of one type.
type EventQueue[T any] struct {
	events []T
}

// Push appends an event.
func (q *EventQueue[T]) Push(e T) { q.events = append(q.events, e) }

// Events returns the queued events in push order. The slice is only valid until Clear.
func (q *EventQueue[T]) Events() []T { return q.events }

// Len returns the number of queued events.
func (q *EventQueue[T]) Len() int { return len(q.events) }

// Clear drops all events, keeping capacity.
func (q *EventQueue[T]) Clear() { q.events = q.events[:0] }

// PlayerCollideEvent is emitted when a collider starts touching the player.
type PlayerCollideEvent struct {
	With ecs.Entity
}

// EnemyCollideEvent is emitted when a damaging collider starts touching an enemy.
type EnemyCollideEvent struct {
	Enemy ecs.Entity
	With  ecs.Entity
}

// ShakeRequest asks the camera for a screen shake.
type ShakeRequest struct {
	Intensity float64
	Duration  float64
}

// Sound identifies a feedback sound effect.
type Sound uint8

const (
	SoundNone Sound = iota
	SoundFission
	SoundShoot
	SoundHit
	SoundPickup
	SoundDash
)

// BurstRequest asks for a particle burst at a world position.
type BurstRequest struct {
	Position r3.Vec
	Kind     ParticleType
}

// FeedbackEvent carries presentation requests out of the simulation.
type FeedbackEvent struct {
	Shake *ShakeRequest
	Burst *BurstRequest
	Sound Sound
}
