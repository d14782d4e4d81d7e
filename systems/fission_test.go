package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
)

func testFissionParams() FissionParams {
	return FissionParams{
		MaxGeneration:  2,
		ChildCount:     2,
		NeutronCount:   3,
		ChildSpeed:     1,
		NeutronSpeed:   2,
		ConeHalfAngle:  math.Pi / 4,
		ShakeIntensity: 5,
		ShakeDuration:  0.2,
	}
}

func hitEvent(sess *Session, atom, with ecs.Entity) {
	sess.EnemyEvents.Push(EnemyCollideEvent{Enemy: atom, With: with})
}

func feedbackCounts(sess *Session) (sounds, bursts, shakes int) {
	for _, ev := range sess.Feedback.Events() {
		if ev.Sound == SoundFission {
			sounds++
		}
		if ev.Burst != nil {
			bursts++
		}
		if ev.Shake != nil {
			shakes++
		}
	}
	return
}

// ---------- Splitting ----------

func TestFission_SplitsAtom(t *testing.T) {
	tw := newTestWorld()
	atom := tw.atom(100, 50, 0, components.Progenitor{})
	shot := tw.neutron(100, 50, r3.Vec{X: 3}, components.Progenitor{})

	params := testFissionParams()
	s := NewFissionSystem(tw.w, params)
	sess := NewSession()
	hitEvent(sess, atom, shot)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 1 || sess.Counters.Fissions != 1 {
		t.Errorf("total = %d, fissions = %d, want 1", sess.TotalEvents, sess.Counters.Fissions)
	}
	if !sess.Commands.Despawning(atom) || !sess.Commands.Despawning(shot) {
		t.Error("atom and projectile should both be despawned")
	}

	f := &recordingFactory{w: tw.w}
	res := sess.Commands.Apply(tw.w, f)
	if res.Despawned != 2 {
		t.Errorf("despawned = %d, want 2", res.Despawned)
	}
	if len(f.atoms) != params.ChildCount || len(f.neutrons) != params.NeutronCount {
		t.Fatalf("spawned %d atoms, %d neutrons", len(f.atoms), len(f.neutrons))
	}

	axis := r3.Vec{X: 1}
	for _, a := range f.atoms {
		if a.Generation != 1 {
			t.Errorf("child generation = %d, want 1", a.Generation)
		}
		if !a.Progenitor.Set || a.Progenitor.Of != atom {
			t.Errorf("child progenitor = %+v, want %v", a.Progenitor, atom)
		}
		if a.Position != (r3.Vec{X: 100, Y: 50}) {
			t.Errorf("child position = %v", a.Position)
		}
		if math.Abs(r3.Norm(a.Velocity)-params.ChildSpeed) > 1e-9 {
			t.Errorf("child speed = %v, want %v", r3.Norm(a.Velocity), params.ChildSpeed)
		}
		if ang := math.Acos(r3.Dot(r3.Unit(a.Velocity), axis)); ang > params.ConeHalfAngle+1e-9 {
			t.Errorf("child direction %.3f rad off axis, cone is %.3f", ang, params.ConeHalfAngle)
		}
	}
	for _, n := range f.neutrons {
		if !n.HitPlayer {
			t.Error("fission neutrons should hurt the player")
		}
		if n.Progenitor.Of != atom {
			t.Errorf("neutron progenitor = %+v, want %v", n.Progenitor, atom)
		}
		if math.Abs(r3.Norm(n.Velocity)-params.NeutronSpeed) > 1e-9 {
			t.Errorf("neutron speed = %v, want %v", r3.Norm(n.Velocity), params.NeutronSpeed)
		}
	}

	sounds, bursts, shakes := feedbackCounts(sess)
	if sounds != 1 || bursts != 1 || shakes != 1 {
		t.Errorf("feedback sounds=%d bursts=%d shakes=%d, want 1 each", sounds, bursts, shakes)
	}
}

func TestFission_TerminalAtomHasNoProducts(t *testing.T) {
	tw := newTestWorld()
	params := testFissionParams()
	atom := tw.atom(0, 0, params.MaxGeneration, components.Progenitor{})
	shot := tw.neutron(0, 0, r3.Vec{X: 1}, components.Progenitor{})

	s := NewFissionSystem(tw.w, params)
	sess := NewSession()
	hitEvent(sess, atom, shot)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.Counters.TerminalFissions != 1 || sess.TotalEvents != 1 {
		t.Errorf("terminal = %d, total = %d, want 1", sess.Counters.TerminalFissions, sess.TotalEvents)
	}
	if _, spawns := sess.Commands.Pending(); spawns != 0 {
		t.Errorf("terminal fission queued %d spawns", spawns)
	}
	for _, ev := range sess.Feedback.Events() {
		if ev.Burst != nil && ev.Burst.Kind != ParticleTerminal {
			t.Errorf("burst kind = %v, want terminal", ev.Burst.Kind)
		}
	}
}

func TestFission_SiblingsIgnored(t *testing.T) {
	tw := newTestWorld()
	origin := tw.w.NewEntity()
	parent := components.Progenitor{Of: origin, Set: true}
	atom := tw.atom(0, 0, 1, parent)
	shot := tw.neutron(0, 0, r3.Vec{X: 1}, parent)

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, atom, shot)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 0 {
		t.Error("sibling projectile split its sibling")
	}
	if sess.Counters.FriendlySkips != 1 {
		t.Errorf("friendly skips = %d, want 1", sess.Counters.FriendlySkips)
	}
	if d, n := sess.Commands.Pending(); d != 0 || n != 0 {
		t.Errorf("pending = %d despawns, %d spawns, want none", d, n)
	}
	if sess.Feedback.Len() != 0 {
		t.Error("skipped collision produced feedback")
	}
}

func TestFission_SiblingTouchDoesNotShieldAtom(t *testing.T) {
	tw := newTestWorld()
	parent := components.Progenitor{Of: tw.w.NewEntity(), Set: true}
	atom := tw.atom(0, 0, 1, parent)
	sibling := tw.neutron(0, 0, r3.Vec{X: 1}, parent)
	stranger := tw.neutron(0, 0, r3.Vec{Y: 1}, components.Progenitor{})

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, atom, sibling)
	hitEvent(sess, atom, stranger)
	s.Update(sess, rand.New(rand.NewSource(1)))

	// Only a reaction claims the atom for the tick
	if sess.TotalEvents != 1 || sess.Counters.FriendlySkips != 1 {
		t.Errorf("total = %d, friendly = %d, want 1 and 1", sess.TotalEvents, sess.Counters.FriendlySkips)
	}
	if !sess.Commands.Despawning(atom) || !sess.Commands.Despawning(stranger) {
		t.Error("atom and stranger should be consumed")
	}
	if sess.Commands.Despawning(sibling) {
		t.Error("sibling neutron should survive")
	}
	if _, _, shakes := feedbackCounts(sess); shakes != 1 {
		t.Errorf("shakes = %d, want 1", shakes)
	}
}

func TestFission_StaleProgenitorStillMatches(t *testing.T) {
	tw := newTestWorld()
	origin := tw.w.NewEntity()
	parent := components.Progenitor{Of: origin, Set: true}
	atom := tw.atom(0, 0, 1, parent)
	shot := tw.neutron(0, 0, r3.Vec{X: 1}, parent)
	tw.w.RemoveEntity(origin)

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, atom, shot)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 0 {
		t.Error("siblings of a removed atom split each other")
	}
}

func TestFission_UnrelatedProgenitorsSplit(t *testing.T) {
	tw := newTestWorld()
	a := components.Progenitor{Of: tw.w.NewEntity(), Set: true}
	b := components.Progenitor{Of: tw.w.NewEntity(), Set: true}
	atom := tw.atom(0, 0, 1, a)
	shot := tw.neutron(0, 0, r3.Vec{X: 1}, b)

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, atom, shot)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 1 {
		t.Errorf("total = %d, want 1", sess.TotalEvents)
	}
}

func TestFission_AtomReactsOncePerTick(t *testing.T) {
	tw := newTestWorld()
	atom := tw.atom(0, 0, 0, components.Progenitor{})
	first := tw.neutron(0, 0, r3.Vec{X: 1}, components.Progenitor{})
	second := tw.neutron(0, 0, r3.Vec{Y: 1}, components.Progenitor{})

	params := testFissionParams()
	s := NewFissionSystem(tw.w, params)
	sess := NewSession()
	hitEvent(sess, atom, first)
	hitEvent(sess, atom, second)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 1 {
		t.Errorf("total = %d, want 1", sess.TotalEvents)
	}
	if sess.Commands.Despawning(second) {
		t.Error("second projectile should survive")
	}
	if _, spawns := sess.Commands.Pending(); spawns != params.ChildCount+params.NeutronCount {
		t.Errorf("spawns = %d, want %d", spawns, params.ChildCount+params.NeutronCount)
	}
	if _, _, shakes := feedbackCounts(sess); shakes != 1 {
		t.Errorf("shakes = %d, want 1", shakes)
	}
}

func TestFission_ProjectileSplitsSeveralAtoms(t *testing.T) {
	tw := newTestWorld()
	a := tw.atom(-5, 0, 0, components.Progenitor{})
	b := tw.atom(5, 0, 0, components.Progenitor{})
	shot := tw.neutron(0, 0, r3.Vec{X: 1}, components.Progenitor{})

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, a, shot)
	hitEvent(sess, b, shot)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 2 {
		t.Errorf("total = %d, want 2", sess.TotalEvents)
	}
	if d, _ := sess.Commands.Pending(); d != 3 {
		t.Errorf("despawns = %d, want 3 (merged projectile)", d)
	}
}

func TestFission_NonAtomEnemyIgnored(t *testing.T) {
	tw := newTestWorld()
	enemy := tw.enemy(0, 0, 10)
	shot := tw.neutron(0, 0, r3.Vec{X: 1}, components.Progenitor{})

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, enemy, shot)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 0 || sess.Feedback.Len() != 0 {
		t.Error("non-atom enemy reacted")
	}
}

func TestFission_MissingComponentsSkipped(t *testing.T) {
	tw := newTestWorld()
	atom := tw.atom(0, 0, 0, components.Progenitor{})
	bare := tw.projectile(0, 0, 2) // no velocity or progenitor

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, atom, bare)
	s.Update(sess, rand.New(rand.NewSource(1)))

	if sess.TotalEvents != 0 {
		t.Error("projectile without velocity caused a fission")
	}
}

func TestFission_StillPairUsesRandomDirection(t *testing.T) {
	tw := newTestWorld()
	atom := tw.atom(0, 0, 0, components.Progenitor{})
	shot := tw.neutron(0, 0, r3.Vec{}, components.Progenitor{})

	s := NewFissionSystem(tw.w, testFissionParams())
	sess := NewSession()
	hitEvent(sess, atom, shot)
	s.Update(sess, rand.New(rand.NewSource(7)))

	f := &recordingFactory{w: tw.w}
	sess.Commands.Apply(tw.w, f)
	for _, a := range f.atoms {
		if n := r3.Norm(a.Velocity); math.IsNaN(n) || math.Abs(n-1) > 1e-9 {
			t.Errorf("child velocity = %v, want unit speed", a.Velocity)
		}
	}
}
