// Package game ties the ECS world, systems and presentation state together.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meltdown/audio"
	"github.com/pthm-cable/meltdown/camera"
	"github.com/pthm-cable/meltdown/components"
	"github.com/pthm-cable/meltdown/config"
	"github.com/pthm-cable/meltdown/systems"
	"github.com/pthm-cable/meltdown/telemetry"
)

const maxParticles = 800

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool                        // Log window stats and bookmarks via slog
	StatsWindowSec float64                     // Overrides telemetry.stats_window when > 0
	OutputDir      string                      // CSV and config output, empty disables
	Headless       bool                        // No settings persistence
	NoAudio        bool                        // Skip the audio mixer entirely
	StepsPerUpdate int                         // Ticks per Update call
	StatsCallback  func(telemetry.WindowStats) // Called on every window flush
}

// Game holds the complete game state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	sess    *systems.Session
	factory *Factory
	player  ecs.Entity

	// Systems
	players    *systems.PlayerSystem
	spawner    *systems.SpawnerSystem
	movement   *systems.MovementSystem
	collision  *systems.CollisionSystem
	fission    *systems.FissionSystem
	lifecycle  *systems.LifecycleSystem
	indicators *systems.IndicatorSystem
	threat     *systems.ThreatSystem
	census     *systems.Census

	// Player lookups
	transformMap *ecs.Map[components.Transform]
	velocityMap  *ecs.Map[components.Velocity]
	healthMap    *ecs.Map[components.Health]
	bulletMap    *ecs.Map[components.BulletCount]
	dashMap      *ecs.Map[components.Dash]

	// Presentation
	camera    *camera.Camera
	settings  *camera.Store
	audio     *audio.Master
	particles *systems.ParticleSystem

	// State
	showIndicators bool
	stepsPerUpdate int
	overLogged     bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) *Game {
	return NewGame(config.Cfg(), opts)
}

// NewGame creates a game, spawns the player and emitter, and seeds the initial atoms.
func NewGame(cfg *config.Config, opts Options) *Game {
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:            cfg,
		world:          world,
		rng:            rng,
		sess:           systems.NewSession(),
		factory:        NewFactory(world, cfg, rng),
		players:        systems.NewPlayerSystem(world, systems.PlayerParamsFromConfig(cfg)),
		spawner:        systems.NewSpawnerSystem(world, systems.SpawnParamsFromConfig(cfg)),
		movement:       systems.NewMovementSystem(world),
		collision:      systems.NewCollisionSystem(world, cfg.Collision.CellSize, cfg.Collision.TraceLogs),
		fission:        systems.NewFissionSystem(world, systems.FissionParamsFromConfig(cfg)),
		lifecycle:      systems.NewLifecycleSystem(world),
		indicators:     systems.NewIndicatorSystem(world),
		threat:         systems.NewThreatSystem(world, cfg.Audio.ThreatStep, cfg.Audio.MaxThreat),
		transformMap:   ecs.NewMap[components.Transform](world),
		velocityMap:    ecs.NewMap[components.Velocity](world),
		healthMap:      ecs.NewMap[components.Health](world),
		bulletMap:      ecs.NewMap[components.BulletCount](world),
		dashMap:        ecs.NewMap[components.Dash](world),
		particles:      systems.NewParticleSystem(maxParticles, rand.New(rand.NewSource(opts.Seed+1))),
		showIndicators: cfg.Debug.ShowIndicators,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
	}

	// Presentation draws from its own streams so shakes and sparks never shift the simulation.
	g.camera = camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), camera.SettingsFromConfig(cfg), rand.New(rand.NewSource(opts.Seed+2)))
	if !opts.Headless {
		store, err := camera.OpenStore(cfg.Camera.SettingsApp)
		if err != nil {
			slog.Warn("camera settings unavailable", "error", err)
		}
		g.settings = store
		g.settings.LoadInto(g.camera)
	}

	if !opts.NoAudio && cfg.Audio.Enabled {
		g.audio = audio.NewMaster(cfg.Audio.SampleRate, cfg.Audio.Volume)
	}

	g.initTelemetry(opts)

	g.player = g.factory.SpawnPlayer(r3.Vec{})
	if cfg.Emitter.Enabled {
		g.factory.SpawnEmitter(r3.Vec{})
	}
	g.spawner.Seed(g.sess, g.rng, g.viewport())
	g.sess.Commands.Apply(g.world, g.factory)

	slog.Info("game started",
		"seed", opts.Seed,
		"initial_atoms", cfg.Atoms.Initial,
		"emitter", cfg.Emitter.Enabled,
		"audio", g.audio != nil,
	)
	return g
}

// Update advances the simulation by stepsPerUpdate ticks with the same input.
// Edge-triggered actions (dash, fire) apply to the first tick only.
func (g *Game) Update(in systems.PlayerInput) {
	for i := range g.stepsPerUpdate {
		if g.sess.GameOver {
			return
		}
		if i > 0 {
			in.Dash = false
			in.Fire = false
		}
		g.step(in)
	}
}

// UpdateHeadless advances the simulation with no player input.
func (g *Game) UpdateHeadless() {
	g.Update(systems.PlayerInput{})
}

// step runs one fixed tick.
func (g *Game) step(in systems.PlayerInput) {
	dt := g.cfg.Physics.DT
	perf := g.perfCollector
	perf.StartTick()

	perf.StartPhase(telemetry.PhaseInput)
	g.players.Control(g.sess, in, dt)

	perf.StartPhase(telemetry.PhaseSpawn)
	g.spawner.Update(g.sess, g.rng, g.viewport(), dt)

	perf.StartPhase(telemetry.PhaseMovement)
	g.movement.Update(dt)
	g.lifecycle.FollowParents(g.sess)

	perf.StartPhase(telemetry.PhasePlayerCollision)
	g.collision.UpdatePlayer(g.sess)

	perf.StartPhase(telemetry.PhaseEnemyCollision)
	g.collision.UpdateEnemies(g.sess)

	perf.StartPhase(telemetry.PhaseReactions)
	g.players.React(g.sess)
	g.fission.Update(g.sess, g.rng)

	perf.StartPhase(telemetry.PhaseLifecycle)
	g.lifecycle.Expire(g.sess, dt)
	g.indicators.Sync(g.sess, g.showIndicators)

	perf.StartPhase(telemetry.PhaseFeedback)
	g.census = g.threat.Update(g.sess)
	g.dispatchFeedback()
	g.updateCamera(float32(dt))

	perf.StartPhase(telemetry.PhaseCommit)
	res := g.sess.Commands.Apply(g.world, g.factory)
	g.recordTick(res)
	g.sess.EndTick()

	perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	perf.EndTick()

	if g.sess.GameOver && !g.overLogged {
		g.overLogged = true
		slog.Info("simulation halted", "tick", g.sess.Tick, "total_events", g.sess.TotalEvents)
	}
}

// viewport returns the world area currently on screen, ignoring shake.
func (g *Game) viewport() systems.Viewport {
	zoom := float64(g.camera.Zoom)
	return systems.Viewport{
		Center: r3.Vec{X: float64(g.camera.X), Y: float64(g.camera.Y)},
		Width:  float64(g.cfg.Screen.Width) / zoom,
		Height: float64(g.cfg.Screen.Height) / zoom,
	}
}

// updateCamera chases the player and advances shakes.
func (g *Game) updateCamera(dt float32) {
	if t, ok := g.PlayerTransform(); ok {
		var v r3.Vec
		if g.velocityMap.Has(g.player) {
			v = g.velocityMap.Get(g.player).Value
		}
		g.camera.Follow(float32(t.Translation.X), float32(t.Translation.Y), float32(v.X), float32(v.Y), dt)
	}
	g.camera.Update(dt)
}

// Unload releases resources and saves camera settings.
func (g *Game) Unload() {
	if err := g.settings.Save(g.camera.Settings); err != nil {
		slog.Warn("camera settings not saved", "error", err)
	}
	g.closeTelemetry()
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return int32(g.sess.Tick)
}

// GameOver reports whether the player has been destroyed.
func (g *Game) GameOver() bool {
	return g.sess.GameOver
}

// World exposes the entity store for rendering.
func (g *Game) World() *ecs.World { return g.world }

// Camera returns the game camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Particles returns the fission spark pool.
func (g *Game) Particles() *systems.ParticleSystem { return g.particles }

// Audio returns the mixer, or nil when audio is disabled.
func (g *Game) Audio() *audio.Master { return g.audio }

// Session exposes shared system state.
func (g *Game) Session() *systems.Session { return g.sess }

// Census returns the live entity counts from the last tick.
func (g *Game) Census() systems.Census {
	if g.census == nil {
		return systems.Census{}
	}
	return *g.census
}

// Player returns the player entity.
func (g *Game) Player() ecs.Entity { return g.player }

// PlayerTransform returns the player's transform if the player is alive.
func (g *Game) PlayerTransform() (components.Transform, bool) {
	if !g.world.Alive(g.player) || !g.transformMap.Has(g.player) {
		return components.Transform{}, false
	}
	return *g.transformMap.Get(g.player), true
}

// PlayerStatus returns the player's health and bullet count.
func (g *Game) PlayerStatus() (health components.Health, bullets components.BulletCount) {
	if !g.world.Alive(g.player) {
		return components.Health{}, components.BulletCount{}
	}
	if g.healthMap.Has(g.player) {
		health = *g.healthMap.Get(g.player)
	}
	if g.bulletMap.Has(g.player) {
		bullets = *g.bulletMap.Get(g.player)
	}
	return health, bullets
}

// DashReady reports whether the player can dash now.
func (g *Game) DashReady() bool {
	if !g.world.Alive(g.player) || !g.dashMap.Has(g.player) {
		return false
	}
	return g.dashMap.Get(g.player).Ready()
}

// Config returns the active configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// PerfStats returns tick timing for the current perf window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// RecordFrame records one rendered frame for perf stats.
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// ShowIndicators reports whether collider outlines are enabled.
func (g *Game) ShowIndicators() bool { return g.showIndicators }

// SetShowIndicators enables or disables collider outlines from the next tick.
func (g *Game) SetShowIndicators(show bool) {
	if show != g.showIndicators {
		slog.Debug("indicators toggled", "show", show)
	}
	g.showIndicators = show
}

// ToggleIndicators flips collider outlines.
func (g *Game) ToggleIndicators() {
	g.SetShowIndicators(!g.showIndicators)
}

// TestShake pushes a strong shake to check camera feel.
func (g *Game) TestShake() {
	g.camera.PushShake(42, 0.5)
}

// StepsPerUpdate returns the ticks run per Update call.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate changes the ticks run per Update call, clamped to [1, 10].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), 10)
}
