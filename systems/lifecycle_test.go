package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
)

func TestLifecycle_Expire(t *testing.T) {
	w := ecs.NewWorld()
	timed := ecs.NewMap2[components.Lifespan, components.Uptime](w)
	short := timed.NewEntity(&components.Lifespan{Seconds: 1}, &components.Uptime{})
	long := timed.NewEntity(&components.Lifespan{Seconds: 10}, &components.Uptime{})

	s := NewLifecycleSystem(w)
	sess := NewSession()

	tests := []struct {
		name      string
		dt        float64
		wantShort bool
		expired   int
	}{
		{"before lifespan", 0.5, false, 0},
		{"at lifespan", 0.5, true, 1},
		{"already queued", 0.5, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess.Counters = TickCounters{}
			s.Expire(sess, tt.dt)
			if got := sess.Commands.Despawning(short); got != tt.wantShort {
				t.Errorf("short despawning = %v, want %v", got, tt.wantShort)
			}
			if sess.Commands.Despawning(long) {
				t.Error("long-lived entity expired")
			}
			if sess.Counters.Expired != tt.expired {
				t.Errorf("expired = %d, want %d", sess.Counters.Expired, tt.expired)
			}
		})
	}

	uptime := ecs.NewMap[components.Uptime](w)
	if got := uptime.Get(long).Seconds; got != 1.5 {
		t.Errorf("uptime = %v, want 1.5", got)
	}
}

func TestLifecycle_FollowParents(t *testing.T) {
	w := ecs.NewWorld()
	transforms := ecs.NewMap[components.Transform](w)
	children := ecs.NewMap2[components.Parent, components.Transform](w)

	pt := components.NewTransform(r3.Vec{X: 10, Y: 20}, 2)
	pt.RotateZ(0.5)
	parent := transforms.NewEntity(&pt)

	ct := components.NewTransform(r3.Vec{}, 1)
	child := children.NewEntity(&components.Parent{Of: parent, Offset: r3.Vec{X: 1}}, &ct)

	s := NewLifecycleSystem(w)
	sess := NewSession()
	s.FollowParents(sess)

	got := transforms.Get(child)
	if got.Translation != (r3.Vec{X: 11, Y: 20}) {
		t.Errorf("translation = %v, want (11, 20)", got.Translation)
	}
	if got.Rotation != pt.Rotation || got.Scale != pt.Scale {
		t.Error("rotation and scale not copied from parent")
	}
	if sess.Commands.Despawning(child) {
		t.Error("child of a live parent despawned")
	}
}

func TestLifecycle_OrphansDespawned(t *testing.T) {
	w := ecs.NewWorld()
	transforms := ecs.NewMap[components.Transform](w)
	children := ecs.NewMap2[components.Parent, components.Transform](w)

	pt := components.NewTransform(r3.Vec{}, 1)
	gone := transforms.NewEntity(&pt)
	leaving := transforms.NewEntity(&pt)

	orphan := children.NewEntity(&components.Parent{Of: gone}, &components.Transform{})
	follower := children.NewEntity(&components.Parent{Of: leaving}, &components.Transform{})
	w.RemoveEntity(gone)

	s := NewLifecycleSystem(w)
	sess := NewSession()
	sess.Commands.Despawn(leaving)
	s.FollowParents(sess)

	if !sess.Commands.Despawning(orphan) {
		t.Error("child of a removed parent kept")
	}
	if !sess.Commands.Despawning(follower) {
		t.Error("child of a despawning parent kept")
	}
}
