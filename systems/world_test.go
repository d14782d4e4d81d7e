package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
)

// testWorld builds bare entity bundles for system tests.
type testWorld struct {
	w *ecs.World

	shapes     *ecs.Map2[components.Transform, components.Collider]
	players    *ecs.Map[components.Player]
	dashes     *ecs.Map[components.Dash]
	hitPlayer  *ecs.Map[components.CollideWithPlayer]
	hitEnemy   *ecs.Map[components.CollideWithEnemy]
	enemies    *ecs.Map[components.Enemy]
	atoms      *ecs.Map[components.Atom]
	velocities *ecs.Map[components.Velocity]
	parents    *ecs.Map[components.Progenitor]
	gens       *ecs.Map[components.Generation]
	transforms *ecs.Map[components.Transform]
}

func newTestWorld() *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		w:          w,
		shapes:     ecs.NewMap2[components.Transform, components.Collider](w),
		players:    ecs.NewMap[components.Player](w),
		dashes:     ecs.NewMap[components.Dash](w),
		hitPlayer:  ecs.NewMap[components.CollideWithPlayer](w),
		hitEnemy:   ecs.NewMap[components.CollideWithEnemy](w),
		enemies:    ecs.NewMap[components.Enemy](w),
		atoms:      ecs.NewMap[components.Atom](w),
		velocities: ecs.NewMap[components.Velocity](w),
		parents:    ecs.NewMap[components.Progenitor](w),
		gens:       ecs.NewMap[components.Generation](w),
		transforms: ecs.NewMap[components.Transform](w),
	}
}

func (tw *testWorld) shape(x, y, r float64) ecs.Entity {
	t := components.NewTransform(r3.Vec{X: x, Y: y}, 1)
	c := components.NewCircle(r3.Vec{}, r)
	return tw.shapes.NewEntity(&t, &c)
}

func (tw *testWorld) player(x, y, r float64) ecs.Entity {
	e := tw.shape(x, y, r)
	tw.players.Add(e, &components.Player{})
	return e
}

func (tw *testWorld) hostile(x, y, r float64) ecs.Entity {
	e := tw.shape(x, y, r)
	tw.hitPlayer.Add(e, &components.CollideWithPlayer{})
	return e
}

func (tw *testWorld) enemy(x, y, r float64) ecs.Entity {
	e := tw.shape(x, y, r)
	tw.enemies.Add(e, &components.Enemy{})
	return e
}

func (tw *testWorld) projectile(x, y, r float64) ecs.Entity {
	e := tw.shape(x, y, r)
	tw.hitEnemy.Add(e, &components.CollideWithEnemy{})
	return e
}

// atom creates an enemy atom with fission bookkeeping.
func (tw *testWorld) atom(x, y float64, gen uint32, parent components.Progenitor) ecs.Entity {
	e := tw.enemy(x, y, 10)
	tw.atoms.Add(e, &components.Atom{})
	tw.parents.Add(e, &parent)
	tw.gens.Add(e, &components.Generation{Events: gen})
	return e
}

// neutron creates a moving projectile with a progenitor.
func (tw *testWorld) neutron(x, y float64, vel r3.Vec, parent components.Progenitor) ecs.Entity {
	e := tw.projectile(x, y, 2)
	tw.velocities.Add(e, &components.Velocity{Value: vel})
	tw.parents.Add(e, &parent)
	return e
}

func (tw *testWorld) moveTo(e ecs.Entity, x, y float64) {
	tw.transforms.Get(e).Translation = r3.Vec{X: x, Y: y}
}

// recordingFactory captures spawn requests instead of building entities.
type recordingFactory struct {
	w          *ecs.World
	atoms      []AtomSpawn
	neutrons   []NeutronSpawn
	pickups    []PickupSpawn
	indicators []IndicatorSpawn
}

func (f *recordingFactory) SpawnAtom(s AtomSpawn) ecs.Entity {
	f.atoms = append(f.atoms, s)
	return f.w.NewEntity()
}

func (f *recordingFactory) SpawnNeutron(s NeutronSpawn) ecs.Entity {
	f.neutrons = append(f.neutrons, s)
	return f.w.NewEntity()
}

func (f *recordingFactory) SpawnPickup(s PickupSpawn) ecs.Entity {
	f.pickups = append(f.pickups, s)
	return f.w.NewEntity()
}

func (f *recordingFactory) SpawnIndicator(s IndicatorSpawn) ecs.Entity {
	f.indicators = append(f.indicators, s)
	return f.w.NewEntity()
}
