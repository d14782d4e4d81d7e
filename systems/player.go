package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
	"github.com/pthm-cable/meltdown/config"
)

// PlayerInput is one tick of player intent, already in world space.
type PlayerInput struct {
	Move   r3.Vec // Unnormalized movement direction
	Dash   bool
	Fire   bool
	Aim    r3.Vec // World-space aim point
	HasAim bool
}

// PlayerParams tunes player control.
type PlayerParams struct {
	FireSpeed     float64
	FireCooldown  float64
	PickupBullets int
}

// PlayerParamsFromConfig reads player parameters from the loaded config.
func PlayerParamsFromConfig(cfg *config.Config) PlayerParams {
	return PlayerParams{
		FireSpeed:     cfg.Player.FireSpeed,
		FireCooldown:  cfg.Player.FireCooldown,
		PickupBullets: cfg.Pickups.Bullets,
	}
}

// PlayerSystem drives the player from input and applies what touches it.
type PlayerSystem struct {
	world  *ecs.World
	params PlayerParams

	control ecs.Filter5[components.Transform, components.Velocity, components.Player, components.Dash, components.BulletCount]
	status  ecs.Filter2[components.Health, components.BulletCount]

	pickupMap *ecs.Map[components.BulletsPickup]
	damageMap *ecs.Map[components.CollisionDamage]
	removeMap *ecs.Map[components.RemoveOnPlayerCollision]
}

// NewPlayerSystem creates a player system.
func NewPlayerSystem(w *ecs.World, params PlayerParams) *PlayerSystem {
	return &PlayerSystem{
		world:     w,
		params:    params,
		control:   *ecs.NewFilter5[components.Transform, components.Velocity, components.Player, components.Dash, components.BulletCount](w),
		status:    *ecs.NewFilter2[components.Health, components.BulletCount](w).With(ecs.C[components.Player]()),
		pickupMap: ecs.NewMap[components.BulletsPickup](w),
		damageMap: ecs.NewMap[components.CollisionDamage](w),
		removeMap: ecs.NewMap[components.RemoveOnPlayerCollision](w),
	}
}

// Control applies movement, dash and firing for this tick.
func (s *PlayerSystem) Control(sess *Session, in PlayerInput, dt float64) {
	query := s.control.Query()
	for query.Next() {
		t, vel, p, dash, bullets := query.Get()

		if dash.Remaining > 0 {
			dash.Remaining -= dt
			if dash.Remaining <= 0 {
				dash.Recharge = dash.Cooldown
			}
		} else if dash.Recharge > 0 {
			dash.Recharge -= dt
		}

		move := planar(in.Move)
		if n := r3.Norm(move); n > 0 {
			move = r3.Scale(1/n, move)
			p.Facing = move
		}

		if in.Dash && dash.Ready() {
			dir := move
			if r3.Norm(dir) == 0 {
				dir = p.Facing
			}
			if r3.Norm(dir) > 0 {
				dash.Remaining = dash.Duration
				dash.Direction = dir
				sess.Counters.Dashes++
				sess.Feedback.Push(FeedbackEvent{Sound: SoundDash})
			}
		}

		if dash.Active() {
			vel.Value = r3.Scale(dash.Strength, dash.Direction)
		} else {
			vel.Value = r3.Scale(p.Speed, move)
		}

		if p.FireCooldown > 0 {
			p.FireCooldown -= dt
		}
		if in.Fire && p.FireCooldown <= 0 && bullets.Count > 0 {
			aim := p.Facing
			if in.HasAim {
				aim = planar(r3.Sub(in.Aim, t.Translation))
			}
			if r3.Norm(aim) == 0 {
				aim = r3.Vec{X: 1}
			}
			bullets.Count--
			p.FireCooldown = s.params.FireCooldown
			sess.Commands.SpawnNeutron(NeutronSpawn{
				Position: t.Translation,
				Velocity: r3.Scale(s.params.FireSpeed, r3.Unit(aim)),
			})
			sess.Counters.Shots++
			sess.Feedback.Push(FeedbackEvent{Sound: SoundShoot})
		}
	}
}

// React applies this tick's player collision events: pickups refill bullets,
// everything else deals its damage, and flagged colliders are removed.
func (s *PlayerSystem) React(sess *Session) {
	query := s.status.Query()
	for query.Next() {
		health, bullets := query.Get()

		for _, ev := range sess.PlayerEvents.Events() {
			e := ev.With
			if !s.world.Alive(e) || sess.Commands.Despawning(e) {
				continue
			}
			if s.pickupMap.Has(e) {
				bullets.Add(s.params.PickupBullets)
				sess.Commands.Despawn(e)
				sess.Counters.Pickups++
				sess.Feedback.Push(FeedbackEvent{Sound: SoundPickup})
				continue
			}
			if s.damageMap.Has(e) {
				amount := s.damageMap.Get(e).Amount
				health.Damage(amount)
				sess.Counters.DamageTaken += amount
				sess.Feedback.Push(FeedbackEvent{Sound: SoundHit})
			}
			if s.removeMap.Has(e) {
				sess.Commands.Despawn(e)
			}
		}

		if health.Depleted() && !sess.GameOver {
			sess.GameOver = true
			slog.Info("player destroyed", "tick", sess.Tick, "total_events", sess.TotalEvents)
		}
	}
}
