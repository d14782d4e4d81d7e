package systems

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
	"github.com/pthm-cable/meltdown/config"
)

// FissionParams tunes the reaction cascade.
type FissionParams struct {
	MaxGeneration  uint32
	ChildCount     int
	NeutronCount   int
	ChildSpeed     float64
	NeutronSpeed   float64
	ConeHalfAngle  float64
	ShakeIntensity float64
	ShakeDuration  float64
}

// FissionParamsFromConfig reads cascade parameters from the loaded config.
func FissionParamsFromConfig(cfg *config.Config) FissionParams {
	return FissionParams{
		MaxGeneration:  cfg.Atoms.MaxGeneration,
		ChildCount:     cfg.Atoms.ChildCount,
		NeutronCount:   cfg.Atoms.NeutronCount,
		ChildSpeed:     cfg.Atoms.ChildSpeed,
		NeutronSpeed:   cfg.Neutrons.FissionSpeed,
		ConeHalfAngle:  cfg.Atoms.ConeHalfAngle,
		ShakeIntensity: cfg.Atoms.ShakeIntensity,
		ShakeDuration:  cfg.Atoms.ShakeDuration,
	}
}

// FissionSystem splits atoms hit by neutrons.
type FissionSystem struct {
	world  *ecs.World
	params FissionParams

	atomMap       *ecs.Map[components.Atom]
	transformMap  *ecs.Map[components.Transform]
	velocityMap   *ecs.Map[components.Velocity]
	progenitorMap *ecs.Map[components.Progenitor]
	generationMap *ecs.Map[components.Generation]

	handled map[ecs.Entity]struct{}
}

// NewFissionSystem creates a fission system.
func NewFissionSystem(w *ecs.World, params FissionParams) *FissionSystem {
	return &FissionSystem{
		world:         w,
		params:        params,
		atomMap:       ecs.NewMap[components.Atom](w),
		transformMap:  ecs.NewMap[components.Transform](w),
		velocityMap:   ecs.NewMap[components.Velocity](w),
		progenitorMap: ecs.NewMap[components.Progenitor](w),
		generationMap: ecs.NewMap[components.Generation](w),
		handled:       make(map[ecs.Entity]struct{}),
	}
}

type atomView struct {
	transform  *components.Transform
	velocity   r3.Vec
	progenitor components.Progenitor
	generation uint32
}

type projectileView struct {
	velocity   r3.Vec
	progenitor components.Progenitor
}

func (s *FissionSystem) atom(e ecs.Entity) (atomView, bool) {
	if !s.world.Alive(e) || !s.atomMap.Has(e) {
		slog.Debug("collided enemy is not an atom", "entity", e.ID())
		return atomView{}, false
	}
	t := getOrLog(s.world, s.transformMap, e, "transform")
	p := getOrLog(s.world, s.progenitorMap, e, "progenitor")
	g := getOrLog(s.world, s.generationMap, e, "generation")
	if t == nil || p == nil || g == nil {
		return atomView{}, false
	}
	v := atomView{transform: t, progenitor: *p, generation: g.Events}
	if s.velocityMap.Has(e) {
		v.velocity = s.velocityMap.Get(e).Value
	}
	return v, true
}

func (s *FissionSystem) projectile(e ecs.Entity) (projectileView, bool) {
	if getOrLog(s.world, s.transformMap, e, "transform") == nil {
		return projectileView{}, false
	}
	vel := getOrLog(s.world, s.velocityMap, e, "velocity")
	p := getOrLog(s.world, s.progenitorMap, e, "progenitor")
	if vel == nil || p == nil {
		return projectileView{}, false
	}
	return projectileView{velocity: vel.Value, progenitor: *p}, true
}

// Update consumes this tick's enemy collision events.
//
// Each atom reacts at most once per tick. Products of an atom never split their
// siblings: a projectile and an atom sharing a progenitor are ignored. Atoms at
// the maximum generation are destroyed without products. A projectile may split
// several atoms in the same tick.
func (s *FissionSystem) Update(sess *Session, rng *rand.Rand) {
	clear(s.handled)
	cmds := sess.Commands

	for _, ev := range sess.EnemyEvents.Events() {
		proj, ok := s.projectile(ev.With)
		if !ok {
			continue
		}
		atom, ok := s.atom(ev.Enemy)
		if !ok {
			continue
		}
		if _, done := s.handled[ev.Enemy]; done {
			continue
		}
		if atom.progenitor.Set && proj.progenitor.Set && atom.progenitor.Of == proj.progenitor.Of {
			sess.Counters.FriendlySkips++
			continue
		}

		s.handled[ev.Enemy] = struct{}{}
		cmds.Despawn(ev.Enemy)
		cmds.Despawn(ev.With)
		sess.TotalEvents++
		sess.Counters.Fissions++

		origin := atom.transform.Translation
		terminal := atom.generation >= s.params.MaxGeneration
		burst := ParticleFission
		if terminal {
			burst = ParticleTerminal
		}
		sess.Feedback.Push(FeedbackEvent{
			Sound: SoundFission,
			Burst: &BurstRequest{Position: origin, Kind: burst},
		})

		if terminal {
			sess.Counters.TerminalFissions++
			continue
		}

		dir := planar(r3.Add(proj.velocity, atom.velocity))
		if r3.Norm(dir) < 1e-9 {
			dir = RandomPlanarDirection(rng)
		}
		cone := NewConeSampler(dir, s.params.ConeHalfAngle, rng)
		parent := components.Progenitor{Of: ev.Enemy, Set: true}

		for range s.params.ChildCount {
			cmds.SpawnAtom(AtomSpawn{
				Position:   origin,
				Velocity:   r3.Scale(s.params.ChildSpeed, cone.NextPlanar()),
				Generation: atom.generation + 1,
				Progenitor: parent,
			})
		}
		for range s.params.NeutronCount {
			cmds.SpawnNeutron(NeutronSpawn{
				Position:   origin,
				Velocity:   r3.Scale(s.params.NeutronSpeed, cone.NextPlanar()),
				Progenitor: parent,
				HitPlayer:  true,
			})
		}
	}

	if len(s.handled) > 0 {
		sess.Feedback.Push(FeedbackEvent{Shake: &ShakeRequest{
			Intensity: s.params.ShakeIntensity,
			Duration:  s.params.ShakeDuration,
		}})
	}
}

// getOrLog returns e's component from m, or nil with a debug log when the
// entity is gone or lacks the component.
func getOrLog[T any](w *ecs.World, m *ecs.Map[T], e ecs.Entity, component string) *T {
	if !w.Alive(e) {
		slog.Debug("entity not alive", "entity", e.ID(), "component", component)
		return nil
	}
	if !m.Has(e) {
		slog.Debug("entity missing component", "entity", e.ID(), "component", component)
		return nil
	}
	return m.Get(e)
}
