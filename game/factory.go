package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
	"github.com/pthm-cable/meltdown/config"
	"github.com/pthm-cable/meltdown/systems"
)

// Factory builds entity bundles. It implements systems.Factory.
type Factory struct {
	world *ecs.World
	cfg   *config.Config
	rng   *rand.Rand

	atomMapper *ecs.Map6[
		components.Transform,
		components.Velocity,
		components.Collider,
		components.RadialVelocity,
		components.Progenitor,
		components.Generation,
	]
	atomTags *ecs.Map5[
		components.Enemy,
		components.Atom,
		components.CollideWithPlayer,
		components.CollisionDamage,
		components.Material,
	]

	neutronMapper *ecs.Map6[
		components.Transform,
		components.Velocity,
		components.Collider,
		components.RadialVelocity,
		components.Progenitor,
		components.Lifespan,
	]
	neutronTags *ecs.Map3[
		components.Neutron,
		components.CollideWithEnemy,
		components.Uptime,
	]
	hostileTags *ecs.Map3[
		components.CollideWithPlayer,
		components.RemoveOnPlayerCollision,
		components.CollisionDamage,
	]

	pickupMapper *ecs.Map4[
		components.Transform,
		components.Collider,
		components.BulletsPickup,
		components.CollideWithPlayer,
	]

	indicatorMapper *ecs.Map3[
		components.Transform,
		components.Parent,
		components.Indicator,
	]
	indicatedMap *ecs.Map[components.Indicated]
	transformMap *ecs.Map[components.Transform]

	playerMapper *ecs.Map7[
		components.Transform,
		components.Velocity,
		components.Collider,
		components.Player,
		components.Dash,
		components.Health,
		components.BulletCount,
	]
	emitterMapper *ecs.Map2[components.Transform, components.Emitter]
}

// NewFactory creates a factory for w.
func NewFactory(w *ecs.World, cfg *config.Config, rng *rand.Rand) *Factory {
	return &Factory{
		world: w,
		cfg:   cfg,
		rng:   rng,
		atomMapper: ecs.NewMap6[
			components.Transform,
			components.Velocity,
			components.Collider,
			components.RadialVelocity,
			components.Progenitor,
			components.Generation,
		](w),
		atomTags: ecs.NewMap5[
			components.Enemy,
			components.Atom,
			components.CollideWithPlayer,
			components.CollisionDamage,
			components.Material,
		](w),
		neutronMapper: ecs.NewMap6[
			components.Transform,
			components.Velocity,
			components.Collider,
			components.RadialVelocity,
			components.Progenitor,
			components.Lifespan,
		](w),
		neutronTags: ecs.NewMap3[
			components.Neutron,
			components.CollideWithEnemy,
			components.Uptime,
		](w),
		hostileTags: ecs.NewMap3[
			components.CollideWithPlayer,
			components.RemoveOnPlayerCollision,
			components.CollisionDamage,
		](w),
		pickupMapper: ecs.NewMap4[
			components.Transform,
			components.Collider,
			components.BulletsPickup,
			components.CollideWithPlayer,
		](w),
		indicatorMapper: ecs.NewMap3[
			components.Transform,
			components.Parent,
			components.Indicator,
		](w),
		indicatedMap: ecs.NewMap[components.Indicated](w),
		transformMap: ecs.NewMap[components.Transform](w),
		playerMapper: ecs.NewMap7[
			components.Transform,
			components.Velocity,
			components.Collider,
			components.Player,
			components.Dash,
			components.Health,
			components.BulletCount,
		](w),
		emitterMapper: ecs.NewMap2[components.Transform, components.Emitter](w),
	}
}

// SpawnAtom creates a spinning atom that hurts the player on contact.
func (f *Factory) SpawnAtom(s systems.AtomSpawn) ecs.Entity {
	a := f.cfg.Atoms
	t := components.NewTransform(s.Position, a.Scale)
	spin := systems.RandRange(f.rng, a.SpinBase-a.SpinJitter, a.SpinBase+a.SpinJitter)

	e := f.atomMapper.NewEntity(
		&t,
		&components.Velocity{Value: s.Velocity},
		ptr(components.NewCircle(r3.Vec{}, a.Radius)),
		&components.RadialVelocity{Strength: spin},
		&s.Progenitor,
		&components.Generation{Events: s.Generation},
	)
	f.atomTags.Add(e,
		&components.Enemy{},
		&components.Atom{},
		&components.CollideWithPlayer{},
		&components.CollisionDamage{Amount: a.Damage},
		&components.Material{Index: materialFor(s.Generation, a.MaxGeneration)},
	)
	return e
}

// SpawnNeutron creates a short-lived neutron. HitPlayer neutrons also damage
// the player and vanish on contact with it.
func (f *Factory) SpawnNeutron(s systems.NeutronSpawn) ecs.Entity {
	n := f.cfg.Neutrons
	t := components.NewTransform(s.Position, n.Scale)

	e := f.neutronMapper.NewEntity(
		&t,
		&components.Velocity{Value: s.Velocity},
		ptr(components.NewCircle(r3.Vec{Y: n.OffsetY}, n.Radius)),
		&components.RadialVelocity{Strength: n.Spin},
		&s.Progenitor,
		&components.Lifespan{Seconds: n.Lifespan},
	)
	f.neutronTags.Add(e, &components.Neutron{}, &components.CollideWithEnemy{}, &components.Uptime{})
	if s.HitPlayer {
		f.hostileTags.Add(e,
			&components.CollideWithPlayer{},
			&components.RemoveOnPlayerCollision{},
			&components.CollisionDamage{Amount: n.Damage},
		)
	}
	return e
}

// SpawnPickup creates a bullet pickup.
func (f *Factory) SpawnPickup(s systems.PickupSpawn) ecs.Entity {
	t := components.NewTransform(s.Position, 1)
	return f.pickupMapper.NewEntity(
		&t,
		ptr(components.NewCircle(r3.Vec{}, f.cfg.Pickups.Radius)),
		&components.BulletsPickup{},
		&components.CollideWithPlayer{},
	)
}

// SpawnIndicator attaches a collider outline to s.Parent and marks the parent.
func (f *Factory) SpawnIndicator(s systems.IndicatorSpawn) ecs.Entity {
	t := components.NewTransform(r3.Vec{}, 1)
	if f.transformMap.Has(s.Parent) {
		t = *f.transformMap.Get(s.Parent)
	}
	e := f.indicatorMapper.NewEntity(&t, &components.Parent{Of: s.Parent}, &components.Indicator{Shape: s.Shape})
	if !f.indicatedMap.Has(s.Parent) {
		f.indicatedMap.Add(s.Parent, &components.Indicated{})
	}
	return e
}

// SpawnPlayer creates the player at pos.
func (f *Factory) SpawnPlayer(pos r3.Vec) ecs.Entity {
	p := f.cfg.Player
	t := components.NewTransform(pos, 1)
	health := components.NewHealth(p.Health)
	return f.playerMapper.NewEntity(
		&t,
		&components.Velocity{},
		ptr(components.NewCircle(r3.Vec{}, p.Radius)),
		&components.Player{Speed: p.Speed, Facing: r3.Vec{X: 1}},
		&components.Dash{Strength: p.DashStrength, Duration: p.DashDuration, Cooldown: p.DashCooldown},
		&health,
		&components.BulletCount{Count: p.StartBullets, Max: p.MaxBullets},
	)
}

// SpawnEmitter creates a stationary neutron emitter at pos.
func (f *Factory) SpawnEmitter(pos r3.Vec) ecs.Entity {
	em := f.cfg.Emitter
	t := components.NewTransform(pos, 1)
	return f.emitterMapper.NewEntity(&t, &components.Emitter{
		Period: em.Period,
		Speed:  em.Speed,
		Count:  em.Count,
	})
}

// materialFor picks the visual variant: fresh atoms use the last material,
// atoms close to the generation cap the first.
func materialFor(gen, maxGen uint32) int {
	if gen >= maxGen {
		return 0
	}
	return int(maxGen - gen)
}

func ptr[T any](v T) *T { return &v }
