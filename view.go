package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meltdown/game"
	"github.com/pthm-cable/meltdown/renderer"
	"github.com/pthm-cable/meltdown/ui"
)

const controlsLegend = "WASD: Move | Space: Dash | J/Click: Fire | Wheel: Zoom | H: Colliders | I: Shake | F1: HUD | Tab: Debug | P: Perf | ,/.: Speed | R: Restart"

var background = rl.Color{R: 12, G: 14, B: 22, A: 255}

// view owns the per-window presentation state for one game.
type view struct {
	entities  *renderer.EntityRenderer
	particles *renderer.ParticleRenderer
	hud       *ui.HUD
	perf      *ui.PerfPanel
	controls  *ui.ControlsPanel
	showPerf  bool
	showHUD   bool
	keys      ui.Hotkeys
}

func newView(g *game.Game) *view {
	return &view{
		entities:  renderer.NewEntityRenderer(g.World()),
		particles: renderer.NewParticleRenderer(),
		hud:       ui.NewHUD(),
		perf:      ui.NewPerfPanel(0, 10),
		controls:  ui.NewControlsPanel(10, 160, 220),
		showHUD:   g.Config().Debug.ShowHUD,
	}
}

// restartRequested reads hotkeys for this frame and reports a restart press.
func (v *view) restartRequested() bool {
	v.keys = ui.ReadHotkeys()
	return v.keys.Restart
}

// update applies hotkeys and advances the game by one frame.
func (v *view) update(g *game.Game) {
	v.apply(g, v.keys.ToggleIndicators, v.keys.TogglePerf, v.keys.TestShake, v.keys.SpeedDelta)
	if v.keys.ToggleControls {
		v.controls.Toggle()
	}
	if v.keys.ToggleHUD {
		v.showHUD = !v.showHUD
	}
	if v.keys.Fullscreen {
		rl.ToggleFullscreen()
	}
	if v.keys.ResetCamera {
		g.Camera().Reset()
	}
	if v.keys.Zoom != 1 {
		g.Camera().ZoomBy(v.keys.Zoom)
	}

	g.Update(ui.ReadInput(g.Camera()))
}

func (v *view) apply(g *game.Game, indicators, perf, shake bool, speed int) {
	if indicators {
		g.ToggleIndicators()
	}
	if perf {
		v.showPerf = !v.showPerf
	}
	if shake {
		g.TestShake()
	}
	if speed != 0 {
		g.SetStepsPerUpdate(g.StepsPerUpdate() + speed)
	}
}

// draw renders the world, HUD and panels for one frame.
func (v *view) draw(g *game.Game) {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	g.Camera().Resize(float32(w), float32(h))

	rl.BeginDrawing()
	rl.ClearBackground(background)

	v.entities.Draw(g.Camera(), g.ShowIndicators())
	v.particles.Draw(g.Camera(), g.Particles().Particles)

	if v.showHUD || g.GameOver() {
		v.drawHUD(g, w, h)
	}
	v.hud.DrawControls(w, h, controlsLegend)

	state := ui.ControlsState{
		ShowIndicators: g.ShowIndicators(),
		ShowPerf:       v.showPerf,
		Speed:          g.StepsPerUpdate(),
		Shakes:         g.Camera().ActiveShakes(),
	}
	if m := g.Audio(); m != nil {
		state.Audio = true
		state.AudibleStems = m.AudibleStems()
	}
	act := v.controls.Draw(state)
	v.apply(g, act.ToggleIndicators, act.TogglePerf, act.TestShake, act.SpeedDelta)

	if v.showPerf {
		v.perf.SetPosition(w-320, 10)
		v.perf.Draw(g.PerfStats())
	}

	rl.EndDrawing()
	g.RecordFrame()
}

func (v *view) drawHUD(g *game.Game, w, h int32) {
	cfg := g.Config()
	census := g.Census()
	health, bullets := g.PlayerStatus()
	v.hud.Draw(ui.HUDData{
		Title:        "Meltdown",
		Tick:         g.Tick(),
		Speed:        g.StepsPerUpdate(),
		FPS:          rl.GetFPS(),
		Atoms:        census.Atoms,
		Neutrons:     census.Neutrons,
		Pickups:      census.Pickups,
		Threat:       g.Session().Threat,
		MaxThreat:    cfg.Audio.MaxThreat,
		TotalEvents:  g.Session().TotalEvents,
		Health:       health.Current(),
		MaxHealth:    health.Total(),
		Bullets:      bullets.Count,
		MaxBullets:   bullets.Max,
		DashReady:    g.DashReady(),
		GameOver:     g.GameOver(),
		ScreenWidth:  w,
		ScreenHeight: h,
	})
}
