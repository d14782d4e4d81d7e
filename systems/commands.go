package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
)

// AtomSpawn requests a new atom.
type AtomSpawn struct {
	Position   r3.Vec
	Velocity   r3.Vec
	Generation uint32
	Progenitor components.Progenitor
}

// NeutronSpawn requests a new neutron. HitPlayer neutrons also damage the player.
type NeutronSpawn struct {
	Position   r3.Vec
	Velocity   r3.Vec
	Progenitor components.Progenitor
	HitPlayer  bool
}

// PickupSpawn requests a bullet pickup.
type PickupSpawn struct {
	Position r3.Vec
}

// IndicatorSpawn requests a collider outline attached to Parent.
type IndicatorSpawn struct {
	Parent ecs.Entity
	Shape  components.Collider
}

// Factory builds entities from spawn requests.
type Factory interface {
	SpawnAtom(AtomSpawn) ecs.Entity
	SpawnNeutron(NeutronSpawn) ecs.Entity
	SpawnPickup(PickupSpawn) ecs.Entity
	SpawnIndicator(IndicatorSpawn) ecs.Entity
}

// ApplyResult summarizes one Commands.Apply.
type ApplyResult struct {
	Despawned       int
	AtomsSpawned    int
	NeutronsSpawned int
	PickupsSpawned  int
}

// Commands defers structural world changes until no query is open.
type Commands struct {
	ops      []func(w *ecs.World)
	despawn  []ecs.Entity
	queued   map[ecs.Entity]struct{}
	atoms    []AtomSpawn
	neutrons []NeutronSpawn
	pickups  []PickupSpawn
	markers  []IndicatorSpawn
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{queued: make(map[ecs.Entity]struct{})}
}

// Despawn queues an entity for removal. Repeated requests are merged.
func (c *Commands) Despawn(e ecs.Entity) {
	if _, ok := c.queued[e]; ok {
		return
	}
	c.queued[e] = struct{}{}
	c.despawn = append(c.despawn, e)
}

// Despawning reports whether e is already queued for removal.
func (c *Commands) Despawning(e ecs.Entity) bool {
	_, ok := c.queued[e]
	return ok
}

// Do queues an arbitrary world mutation, run before despawns.
func (c *Commands) Do(op func(w *ecs.World)) { c.ops = append(c.ops, op) }

func (c *Commands) SpawnAtom(s AtomSpawn)           { c.atoms = append(c.atoms, s) }
func (c *Commands) SpawnNeutron(s NeutronSpawn)     { c.neutrons = append(c.neutrons, s) }
func (c *Commands) SpawnPickup(s PickupSpawn)       { c.pickups = append(c.pickups, s) }
func (c *Commands) SpawnIndicator(s IndicatorSpawn) { c.markers = append(c.markers, s) }

// Pending returns the number of queued despawns and spawns.
func (c *Commands) Pending() (despawns, spawns int) {
	return len(c.despawn), len(c.atoms) + len(c.neutrons) + len(c.pickups) + len(c.markers)
}

// Apply runs queued ops, removes queued entities that are still alive, then
// spawns through f. The buffer is empty afterwards.
func (c *Commands) Apply(w *ecs.World, f Factory) ApplyResult {
	var res ApplyResult

	for _, op := range c.ops {
		op(w)
	}

	for _, e := range c.despawn {
		if !w.Alive(e) {
			continue
		}
		w.RemoveEntity(e)
		res.Despawned++
	}

	for _, s := range c.atoms {
		f.SpawnAtom(s)
	}
	res.AtomsSpawned = len(c.atoms)
	for _, s := range c.neutrons {
		f.SpawnNeutron(s)
	}
	res.NeutronsSpawned = len(c.neutrons)
	for _, s := range c.pickups {
		f.SpawnPickup(s)
	}
	res.PickupsSpawned = len(c.pickups)
	for _, s := range c.markers {
		if w.Alive(s.Parent) {
			f.SpawnIndicator(s)
		}
	}

	c.Reset()
	return res
}

// Reset drops everything queued.
func (c *Commands) Reset() {
	c.ops = c.ops[:0]
	c.despawn = c.despawn[:0]
	clear(c.queued)
	c.atoms = c.atoms[:0]
	c.neutrons = c.neutrons[:0]
	c.pickups = c.pickups[:0]
	c.markers = c.markers[:0]
}
