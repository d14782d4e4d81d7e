package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meltdown/components"
)

// Census is a count of live gameplay entities.
type Census struct {
	Atoms       int
	Neutrons    int
	Pickups     int
	Generations []float64 // One entry per live atom
}

// ThreatSystem derives the threat level from the number of live atoms.
type ThreatSystem struct {
	step, maxLevel int

	atoms    ecs.Filter1[components.Generation]
	neutrons ecs.Filter1[components.Neutron]
	pickups  ecs.Filter1[components.BulletsPickup]

	census Census
}

// NewThreatSystem creates a threat system. Every step live atoms raise the
// threat by one, up to maxLevel.
func NewThreatSystem(w *ecs.World, step, maxLevel int) *ThreatSystem {
	return &ThreatSystem{
		step:     step,
		maxLevel: maxLevel,
		atoms:    *ecs.NewFilter1[components.Generation](w).With(ecs.C[components.Atom]()),
		neutrons: *ecs.NewFilter1[components.Neutron](w),
		pickups:  *ecs.NewFilter1[components.BulletsPickup](w),
	}
}

// Update counts live entities and stores the threat level on the session.
// The returned census is reused by the next call.
func (s *ThreatSystem) Update(sess *Session) *Census {
	c := &s.census
	c.Atoms, c.Neutrons, c.Pickups = 0, 0, 0
	c.Generations = c.Generations[:0]

	query := s.atoms.Query()
	for query.Next() {
		g := query.Get()
		c.Atoms++
		c.Generations = append(c.Generations, float64(g.Events))
	}
	nq := s.neutrons.Query()
	for nq.Next() {
		c.Neutrons++
	}
	pq := s.pickups.Query()
	for pq.Next() {
		c.Pickups++
	}

	sess.Threat = ThreatLevel(c.Atoms, s.step, s.maxLevel)
	return c
}

// ThreatLevel maps a live atom count to a level in [1, maxLevel].
func ThreatLevel(atoms, step, maxLevel int) int {
	if step <= 0 {
		step = 1
	}
	return clampInt(1+atoms/step, 1, maxLevel)
}
