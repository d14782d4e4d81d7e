package game

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/components"
	"github.com/pthm-cable/meltdown/config"
	"github.com/pthm-cable/meltdown/systems"
	"github.com/pthm-cable/meltdown/telemetry"
)

// quietConfig returns defaults with no ambient spawning and no emitter.
func quietConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Atoms.Initial = 0
	cfg.Atoms.SpawnRate = 0
	cfg.Pickups.SpawnRate = 0
	cfg.Emitter.Enabled = false
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	g := NewGame(cfg, Options{Seed: 7, Headless: true, NoAudio: true})
	t.Cleanup(g.Unload)
	return g
}

func countWith[T any](w *ecs.World) int {
	n := 0
	query := ecs.NewFilter1[T](w).Query()
	for query.Next() {
		n++
	}
	return n
}

func atomGenerations(w *ecs.World) []uint32 {
	var gens []uint32
	query := ecs.NewFilter1[components.Generation](w).With(ecs.C[components.Atom]()).Query()
	for query.Next() {
		gens = append(gens, query.Get().Events)
	}
	return gens
}

func TestNewGameSeedsAtoms(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Atoms.Initial = 8
	g := newTestGame(t, cfg)

	if got := countWith[components.Atom](g.World()); got != 8 {
		t.Fatalf("atoms after start = %d, want 8", got)
	}
	if got := countWith[components.Player](g.World()); got != 1 {
		t.Fatalf("players = %d, want 1", got)
	}

	g.UpdateHeadless()
	if g.Census().Atoms != 8 {
		t.Errorf("census atoms = %d, want 8", g.Census().Atoms)
	}
	if g.Tick() != 1 {
		t.Errorf("tick = %d, want 1", g.Tick())
	}
}

func TestSeededAtomsStartOffScreen(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Atoms.Initial = 20
	g := newTestGame(t, cfg)

	view := g.viewport()
	query := ecs.NewFilter1[components.Transform](g.World()).With(ecs.C[components.Atom]()).Query()
	for query.Next() {
		if p := query.Get().Translation; view.Contains(p) {
			t.Errorf("atom spawned on screen at %v", p)
		}
	}
}

func TestNeutronSplitsAtom(t *testing.T) {
	cfg := quietConfig(t)
	g := newTestGame(t, cfg)

	pos := r3.Vec{X: 300}
	g.factory.SpawnAtom(systems.AtomSpawn{Position: pos})
	g.factory.SpawnNeutron(systems.NeutronSpawn{Position: pos})

	g.UpdateHeadless()

	if g.Session().TotalEvents != 1 {
		t.Fatalf("total events = %d, want 1", g.Session().TotalEvents)
	}
	gens := atomGenerations(g.World())
	if len(gens) != cfg.Atoms.ChildCount {
		t.Fatalf("atoms after fission = %d, want %d", len(gens), cfg.Atoms.ChildCount)
	}
	for _, gen := range gens {
		if gen != 1 {
			t.Errorf("child generation = %d, want 1", gen)
		}
	}
	if got := countWith[components.Neutron](g.World()); got != cfg.Atoms.NeutronCount {
		t.Errorf("neutrons after fission = %d, want %d", got, cfg.Atoms.NeutronCount)
	}
	if g.Camera().ActiveShakes() != 1 {
		t.Errorf("active shakes = %d, want 1", g.Camera().ActiveShakes())
	}
	if g.Particles().Count() == 0 {
		t.Error("fission left no sparks")
	}

	// Products overlap their siblings but never split them.
	g.UpdateHeadless()
	if g.Session().TotalEvents != 1 {
		t.Errorf("siblings reacted: total events = %d, want 1", g.Session().TotalEvents)
	}
	if got := countWith[components.Atom](g.World()); got != cfg.Atoms.ChildCount {
		t.Errorf("atoms after sibling contact = %d, want %d", got, cfg.Atoms.ChildCount)
	}
}

func TestTerminalAtomLeavesNoProducts(t *testing.T) {
	cfg := quietConfig(t)
	g := newTestGame(t, cfg)

	pos := r3.Vec{X: -300, Y: 100}
	g.factory.SpawnAtom(systems.AtomSpawn{Position: pos, Generation: cfg.Atoms.MaxGeneration})
	g.factory.SpawnNeutron(systems.NeutronSpawn{Position: pos})

	g.UpdateHeadless()

	if g.Session().TotalEvents != 1 {
		t.Fatalf("total events = %d, want 1", g.Session().TotalEvents)
	}
	if got := countWith[components.Atom](g.World()); got != 0 {
		t.Errorf("atoms = %d, want 0", got)
	}
	if got := countWith[components.Neutron](g.World()); got != 0 {
		t.Errorf("neutrons = %d, want 0", got)
	}
}

func TestPlayerCollectsPickup(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Player.StartBullets = 8
	g := newTestGame(t, cfg)

	g.factory.SpawnPickup(systems.PickupSpawn{Position: r3.Vec{X: 10}})
	g.UpdateHeadless()

	_, bullets := g.PlayerStatus()
	if bullets.Count != cfg.Player.MaxBullets {
		t.Errorf("bullets = %d, want clamp at %d", bullets.Count, cfg.Player.MaxBullets)
	}
	if got := countWith[components.BulletsPickup](g.World()); got != 0 {
		t.Errorf("pickup not removed: %d left", got)
	}
}

func TestPlayerDestroyedHaltsSimulation(t *testing.T) {
	cfg := quietConfig(t)
	cfg.Player.Health = 1
	g := newTestGame(t, cfg)

	g.factory.SpawnAtom(systems.AtomSpawn{Position: r3.Vec{}})
	g.UpdateHeadless()

	if !g.GameOver() {
		t.Fatal("expected game over")
	}
	health, _ := g.PlayerStatus()
	if health.Current() != 0 {
		t.Errorf("health = %v, want 0", health.Current())
	}

	tick := g.Tick()
	g.UpdateHeadless()
	if g.Tick() != tick {
		t.Errorf("simulation advanced after game over: %d -> %d", tick, g.Tick())
	}
}

func TestContactDamagesOnce(t *testing.T) {
	cfg := quietConfig(t)
	g := newTestGame(t, cfg)

	g.factory.SpawnAtom(systems.AtomSpawn{Position: r3.Vec{}})
	for range 5 {
		g.UpdateHeadless()
	}

	health, _ := g.PlayerStatus()
	if want := cfg.Player.Health - cfg.Atoms.Damage; health.Current() != want {
		t.Errorf("health = %v, want %v after one lasting contact", health.Current(), want)
	}
}

func TestPlayerFiresNeutron(t *testing.T) {
	cfg := quietConfig(t)
	g := newTestGame(t, cfg)

	g.Update(systems.PlayerInput{Fire: true, Aim: r3.Vec{X: 100}, HasAim: true})

	_, bullets := g.PlayerStatus()
	if bullets.Count != cfg.Player.StartBullets-1 {
		t.Errorf("bullets = %d, want %d", bullets.Count, cfg.Player.StartBullets-1)
	}
	if got := countWith[components.Neutron](g.World()); got != 1 {
		t.Fatalf("neutrons = %d, want 1", got)
	}
	if got := countWith[components.RemoveOnPlayerCollision](g.World()); got != 0 {
		t.Errorf("player neutron should not hit the player")
	}
}

func TestIndicatorsToggle(t *testing.T) {
	cfg := quietConfig(t)
	g := newTestGame(t, cfg)
	g.factory.SpawnPickup(systems.PickupSpawn{Position: r3.Vec{X: 500}})

	g.SetShowIndicators(true)
	g.UpdateHeadless()
	g.UpdateHeadless()

	colliders := countWith[components.Collider](g.World())
	if got := countWith[components.Indicator](g.World()); got != colliders {
		t.Errorf("indicators = %d, want one per collider (%d)", got, colliders)
	}

	g.ToggleIndicators()
	g.UpdateHeadless()
	if got := countWith[components.Indicator](g.World()); got != 0 {
		t.Errorf("indicators after hide = %d, want 0", got)
	}
	if got := countWith[components.Indicated](g.World()); got != 0 {
		t.Errorf("indicated marks after hide = %d, want 0", got)
	}
}

func TestOneCuePerTick(t *testing.T) {
	cfg := quietConfig(t)
	g := NewGame(cfg, Options{Seed: 1, Headless: true})
	t.Cleanup(g.Unload)
	if g.Audio() == nil {
		t.Fatal("expected audio mixer")
	}

	// Dash and fire in the same tick queue two sounds.
	g.Update(systems.PlayerInput{Dash: true, Fire: true})

	if g.Audio().Played() != 1 {
		t.Errorf("played = %d, want 1", g.Audio().Played())
	}
	if g.Audio().Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", g.Audio().Dropped())
	}
}

func TestStatsCallback(t *testing.T) {
	cfg := quietConfig(t)
	var windows []telemetry.WindowStats
	g := NewGame(cfg, Options{
		Seed:           1,
		Headless:       true,
		NoAudio:        true,
		StatsWindowSec: 0.25,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	t.Cleanup(g.Unload)

	for range 60 {
		g.UpdateHeadless()
	}
	if len(windows) < 3 {
		t.Fatalf("windows flushed = %d, want at least 3", len(windows))
	}
	if windows[0].PlayerHealth != cfg.Player.Health {
		t.Errorf("player health gauge = %v, want %v", windows[0].PlayerHealth, cfg.Player.Health)
	}
}

func TestSameSeedSameOutcome(t *testing.T) {
	run := func() (uint64, int) {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatal(err)
		}
		g := NewGame(cfg, Options{Seed: 42, Headless: true, NoAudio: true})
		defer g.Unload()
		for range 600 {
			g.UpdateHeadless()
		}
		return g.Session().TotalEvents, countWith[components.Atom](g.World())
	}

	events1, atoms1 := run()
	events2, atoms2 := run()
	if events1 != events2 || atoms1 != atoms2 {
		t.Errorf("runs diverged: (%d, %d) vs (%d, %d)", events1, atoms1, events2, atoms2)
	}
}

func TestStepsPerUpdate(t *testing.T) {
	cfg := quietConfig(t)
	g := NewGame(cfg, Options{Seed: 1, Headless: true, NoAudio: true, StepsPerUpdate: 4})
	t.Cleanup(g.Unload)

	g.UpdateHeadless()
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}

	g.SetStepsPerUpdate(50)
	if g.StepsPerUpdate() != 10 {
		t.Errorf("steps per update = %d, want clamp at 10", g.StepsPerUpdate())
	}
}
