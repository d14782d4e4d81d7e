package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meltdown/components"
)

// IndicatorSystem attaches or removes debug collider outlines.
type IndicatorSystem struct {
	unmarked     ecs.Filter1[components.Collider]
	marked       ecs.Filter1[components.Indicated]
	indicators   ecs.Filter1[components.Indicator]
	indicatedMap *ecs.Map[components.Indicated]
}

// NewIndicatorSystem creates an indicator system.
func NewIndicatorSystem(w *ecs.World) *IndicatorSystem {
	return &IndicatorSystem{
		unmarked:     *ecs.NewFilter1[components.Collider](w).Without(ecs.C[components.Indicated]()),
		marked:       *ecs.NewFilter1[components.Indicated](w),
		indicators:   *ecs.NewFilter1[components.Indicator](w),
		indicatedMap: ecs.NewMap[components.Indicated](w),
	}
}

// Sync queues an indicator for every collider that lacks one when show is set,
// and removes all indicators otherwise.
func (s *IndicatorSystem) Sync(sess *Session, show bool) {
	if show {
		query := s.unmarked.Query()
		for query.Next() {
			e := query.Entity()
			if sess.Commands.Despawning(e) {
				continue
			}
			sess.Commands.SpawnIndicator(IndicatorSpawn{Parent: e, Shape: *query.Get()})
		}
		return
	}

	iq := s.indicators.Query()
	for iq.Next() {
		sess.Commands.Despawn(iq.Entity())
	}
	mq := s.marked.Query()
	for mq.Next() {
		e := mq.Entity()
		sess.Commands.Do(func(w *ecs.World) {
			if w.Alive(e) && s.indicatedMap.Has(e) {
				s.indicatedMap.Remove(e)
			}
		})
	}
}
