package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
	"github.com/pthm-cable/meltdown/config"
)

// SpawnParams tunes ambient spawning.
type SpawnParams struct {
	InitialAtoms int
	AtomRate     float64 // Expected atoms per second
	AtomSpeed    float64
	PickupRate   float64 // Expected pickups per second
	Margin       float64 // Distance beyond the screen edge
}

// SpawnParamsFromConfig reads spawn parameters from the loaded config.
func SpawnParamsFromConfig(cfg *config.Config) SpawnParams {
	return SpawnParams{
		InitialAtoms: cfg.Atoms.Initial,
		AtomRate:     cfg.Atoms.SpawnRate,
		AtomSpeed:    cfg.Atoms.ChildSpeed,
		PickupRate:   cfg.Pickups.SpawnRate,
		Margin:       cfg.Atoms.Radius * cfg.Atoms.Scale * 2,
	}
}

// SpawnerSystem introduces atoms and pickups outside the visible area, and
// fires the stationary neutron emitters.
type SpawnerSystem struct {
	params   SpawnParams
	emitters ecs.Filter2[components.Transform, components.Emitter]
}

// NewSpawnerSystem creates a spawner system.
func NewSpawnerSystem(w *ecs.World, params SpawnParams) *SpawnerSystem {
	return &SpawnerSystem{
		params:   params,
		emitters: *ecs.NewFilter2[components.Transform, components.Emitter](w),
	}
}

// Seed queues the initial generation-0 atoms.
func (s *SpawnerSystem) Seed(sess *Session, rng *rand.Rand, view Viewport) {
	for range s.params.InitialAtoms {
		s.spawnAtom(sess, rng, view)
	}
}

// Update rolls for new atoms and pickups and advances emitters.
func (s *SpawnerSystem) Update(sess *Session, rng *rand.Rand, view Viewport, dt float64) {
	if rng.Float64() < s.params.AtomRate*dt {
		s.spawnAtom(sess, rng, view)
	}
	if rng.Float64() < s.params.PickupRate*dt {
		sess.Commands.SpawnPickup(PickupSpawn{Position: RandomOutsideScreen(rng, view, s.params.Margin)})
	}

	query := s.emitters.Query()
	for query.Next() {
		t, em := query.Get()
		em.Elapsed += dt
		if em.Elapsed < em.Period {
			continue
		}
		em.Elapsed -= em.Period
		for i := range em.Count {
			angle := float64(i)*2*math.Pi/float64(em.Count) + math.Pi/4
			sess.Commands.SpawnNeutron(NeutronSpawn{
				Position:  t.Translation,
				Velocity:  r3.Vec{X: math.Cos(angle) * em.Speed, Y: math.Sin(angle) * em.Speed},
				HitPlayer: true,
			})
		}
	}
}

// spawnAtom queues an atom outside the screen drifting toward its center.
func (s *SpawnerSystem) spawnAtom(sess *Session, rng *rand.Rand, view Viewport) {
	pos := RandomOutsideScreen(rng, view, s.params.Margin)
	dir := planar(r3.Sub(view.Center, pos))
	var vel r3.Vec
	if r3.Norm(dir) > 0 {
		vel = r3.Scale(s.params.AtomSpeed, r3.Unit(dir))
	}
	sess.Commands.SpawnAtom(AtomSpawn{Position: pos, Velocity: vel})
}
