package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
)

// LifecycleSystem expires timed entities and keeps children attached to parents.
type LifecycleSystem struct {
	world        *ecs.World
	expiring     ecs.Filter2[components.Lifespan, components.Uptime]
	children     ecs.Filter2[components.Parent, components.Transform]
	transformMap *ecs.Map[components.Transform]
}

// NewLifecycleSystem creates a lifecycle system.
func NewLifecycleSystem(w *ecs.World) *LifecycleSystem {
	return &LifecycleSystem{
		world:        w,
		expiring:     *ecs.NewFilter2[components.Lifespan, components.Uptime](w),
		children:     *ecs.NewFilter2[components.Parent, components.Transform](w),
		transformMap: ecs.NewMap[components.Transform](w),
	}
}

// Expire advances uptimes by dt and despawns entities that outlived their lifespan.
func (s *LifecycleSystem) Expire(sess *Session, dt float64) {
	query := s.expiring.Query()
	for query.Next() {
		life, up := query.Get()
		up.Seconds += dt
		if up.Seconds < life.Seconds {
			continue
		}
		e := query.Entity()
		if !sess.Commands.Despawning(e) {
			sess.Commands.Despawn(e)
			sess.Counters.Expired++
		}
	}
}

// FollowParents copies each parent's transform onto its children, offset by
// Parent.Offset. Children whose parent is gone or leaving are despawned.
func (s *LifecycleSystem) FollowParents(sess *Session) {
	query := s.children.Query()
	for query.Next() {
		p, t := query.Get()
		if !s.world.Alive(p.Of) || !s.transformMap.Has(p.Of) || sess.Commands.Despawning(p.Of) {
			sess.Commands.Despawn(query.Entity())
			continue
		}
		pt := s.transformMap.Get(p.Of)
		t.Translation = r3.Add(pt.Translation, p.Offset)
		t.Rotation = pt.Rotation
		t.Scale = pt.Scale
	}
}
